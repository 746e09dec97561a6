package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/youruser/cardgen/internal/markup"
)

func newWrapCmd(a *app) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "wrap <markup>",
		Short: "Show how markup wraps in the description font",
		Long: `Tokenize keyword markup and print the wrapped lines with their measured
widths. Nothing is drawn. The width defaults to the description box.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width == 0 {
				width = a.cfg.Layout.TextRight - a.cfg.Layout.TextLeft
			}
			if width < 0 {
				return fail("wrap", fmt.Errorf("width must be positive, got %d", width))
			}
			r, err := a.renderer()
			if err != nil {
				return err
			}
			lines, err := r.WrapText(args[0], width)
			if err != nil {
				return fail("wrap", err)
			}
			p := a.printer(cmd)
			for _, line := range lines {
				p.Line(markup.String(line), fmt.Sprintf("(%dpx)", r.Text().Width(line)))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 0, "maximum line width in pixels")
	return cmd
}
