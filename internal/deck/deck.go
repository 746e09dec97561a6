package deck

import (
	"fmt"

	"github.com/youruser/cardgen/internal/datafile"
)

// Deck lists card data files rendered together by `cardgen batch`.
// Card paths are relative to the deck file.
type Deck struct {
	Name  string   `json:"name"`
	Cards []string `json:"cards"`
}

// LoadDeck reads a deck file. Decks may inherit their name or list from a
// parent deck like any other data file.
func LoadDeck(path string) (*Deck, error) {
	doc, err := datafile.Load(path)
	if err != nil {
		return nil, err
	}
	d := &Deck{}
	if _, err := doc.Decode("name", &d.Name); err != nil {
		return nil, err
	}
	f, ok, err := doc.Lookup("cards")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("deck %s: missing field \"cards\"", path)
	}
	for i, c := range f.Get().Array() {
		if c.String() == "" {
			return nil, fmt.Errorf("deck %s: card %d is not a path", path, i+1)
		}
		d.Cards = append(d.Cards, datafile.JoinPath(f.Dir, c.String()))
	}
	return d, nil
}
