package main

import (
	"github.com/spf13/cobra"

	"github.com/youruser/cardgen/internal/datafile"
	imagepkg "github.com/youruser/cardgen/internal/image"
	"github.com/youruser/cardgen/internal/keyword"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the template, fonts and keyword dictionary",
		Long: `Load the template manifest and print its checksum, then make sure it
matches template.md5 (when set) and that the fonts and keyword dictionary
load.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := a.printer(cmd)
			manifest := datafile.JoinPath(a.cfg.Assets, a.cfg.Template.Manifest)
			tpl, err := imagepkg.LoadTemplate(manifest)
			if err != nil {
				return fail("loading template", err)
			}
			p.KeyValue("template", manifest)
			p.KeyValue("layers", len(tpl.Layers))
			p.KeyValue("checksum", tpl.Checksum())
			if err := tpl.Verify(a.cfg.Template.MD5); err != nil {
				return fail("template", err)
			}
			if _, err := keyword.Open(a.cfg.KeywordPath()); err != nil {
				return fail("loading keywords", err)
			}
			p.KeyValue("keywords", a.cfg.KeywordPath())
			if _, err := a.renderer(); err != nil {
				return err
			}
			p.Success("assets ok")
			return nil
		},
	}
}
