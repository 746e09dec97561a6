package cards

import "strings"

type FilterOptions struct {
	Rarities  []string
	Types     []string
	Costs     []string
	FreeWords string
}

func containsFold(hay string, needles []string) bool {
	for _, n := range needles {
		if strings.EqualFold(hay, n) {
			return true
		}
	}
	return false
}

// searchText is everything free words may match: name, preamble and dice.
func searchText(c Card) string {
	parts := []string{c.Name, c.Preamble}
	for _, d := range c.Dice {
		parts = append(parts, d.Type, d.Range, d.Effect)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Filter keeps cards matching every non-empty option. Free words must all
// appear somewhere in the card's text.
func Filter(cards []Card, opt FilterOptions) []Card {
	var out []Card
	for _, c := range cards {
		if len(opt.Rarities) > 0 && !containsFold(c.Rarity, opt.Rarities) {
			continue
		}
		if len(opt.Types) > 0 && !containsFold(c.Type, opt.Types) {
			continue
		}
		if len(opt.Costs) > 0 && !containsFold(string(c.Cost), opt.Costs) {
			continue
		}
		if opt.FreeWords != "" {
			text := searchText(c)
			ok := true
			for _, k := range strings.Fields(opt.FreeWords) {
				if !strings.Contains(text, strings.ToLower(k)) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
