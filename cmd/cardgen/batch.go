package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/youruser/cardgen/internal/cards"
	"github.com/youruser/cardgen/internal/deck"
	"github.com/youruser/cardgen/internal/util"
)

type batchOptions struct {
	mini   bool
	filter cards.FilterOptions
}

func newBatchCmd(a *app) *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "batch <dir|deck> <outdir>",
		Short: "Render every card in a directory or deck",
		Long: `Render every card in a data directory, or every card listed in a deck
file, into outdir. Files without a name (shared parents) are skipped.

Rendering stops at the first failing card. An index.txt listing the
rendered cards is written next to the images.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd, args[0], args[1], opts)
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&opts.mini, "mini", "m", false, "render only the card covers")
	f.StringSliceVar(&opts.filter.Rarities, "rarity", nil, "only cards of these rarities")
	f.StringSliceVar(&opts.filter.Types, "type", nil, "only cards of these types")
	f.StringSliceVar(&opts.filter.Costs, "cost", nil, "only cards with these costs")
	f.StringVar(&opts.filter.FreeWords, "query", "", "only cards whose text contains every word")
	return cmd
}

// loadBatch returns the cards at src and the deck name, if src is a deck.
func loadBatch(src string) ([]cards.Card, string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, "", err
	}
	if info.IsDir() {
		all, err := cards.LoadCardsFromDataDir(src)
		return all, "", err
	}

	d, err := deck.LoadDeck(src)
	if err != nil {
		return nil, "", err
	}
	var all []cards.Card
	for _, path := range d.Cards {
		c, err := cards.LoadCard(path)
		if err != nil {
			return nil, "", err
		}
		all = append(all, *c)
	}
	return all, d.Name, nil
}

func outputName(c cards.Card) string {
	base := filepath.Base(c.Source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}

// outputNames names each card's PNG after its data file. Two data files with
// the same base name would overwrite each other, so that is an error.
func outputNames(selected []cards.Card) ([]string, error) {
	names := make([]string, len(selected))
	seen := map[string]string{}
	for i, c := range selected {
		name := outputName(c)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, c.Source, name)
		}
		seen[name] = c.Source
		names[i] = name
	}
	return names, nil
}

func (a *app) runBatch(cmd *cobra.Command, src, outDir string, opts batchOptions) error {
	all, name, err := loadBatch(src)
	if err != nil {
		return fail("loading "+src, err)
	}
	selected := cards.Filter(all, opts.filter)
	a.logger.Info("batch", "source", src, "cards", len(all), "selected", len(selected))
	names, err := outputNames(selected)
	if err != nil {
		return fail("batch", err)
	}

	r, err := a.renderer()
	if err != nil {
		return err
	}

	p := a.printer(cmd)
	var results []deck.Result
	for i := range selected {
		c := &selected[i]
		out := filepath.Join(outDir, names[i])
		img, err := r.Render(c, opts.mini)
		if err != nil {
			return fail(fmt.Sprintf("rendering %s (%d of %d)", c.Source, i+1, len(selected)), err)
		}
		if err := util.WritePNG(out, img); err != nil {
			return fail("writing "+out, err)
		}
		results = append(results, deck.Result{Name: c.Name, Cost: string(c.Cost), Output: out})
		p.Line(out, c.Name)
	}

	index := filepath.Join(outDir, "index.txt")
	if err := util.WriteFile(index, []byte(deck.ExportDeckText(name, results))); err != nil {
		return fail("writing index", err)
	}
	p.Success("rendered %d cards", len(results))
	return nil
}
