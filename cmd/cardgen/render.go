package main

import (
	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	var mini bool
	cmd := &cobra.Command{
		Use:   "render <data> <output>",
		Short: "Render one card to a PNG",
		Long: `Render the card described by a data file to a PNG.

With --mini only the cover is drawn: the template, art, title and cost,
cropped to the mini box. Nothing is written if rendering fails.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.renderer()
			if err != nil {
				return err
			}
			if err := r.RenderFile(args[0], args[1], mini); err != nil {
				return fail("rendering "+args[0], err)
			}
			a.printer(cmd).Success("wrote %s", args[1])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&mini, "mini", "m", false, "render only the card cover")
	return cmd
}
