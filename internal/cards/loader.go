package cards

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/youruser/cardgen/internal/datafile"
)

// ErrNotACard marks data files without a name, typically shared parents.
var ErrNotACard = errors.New("document has no card name")

// FromDocument decodes a card, following parent links for missing fields.
func FromDocument(doc *datafile.Document) (*Card, error) {
	c := &Card{Grit: true, Source: doc.Path()}

	name, ok, err := doc.String("name")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotACard
	}
	c.Name = name

	required := []struct {
		field string
		dst   any
	}{
		{"cost", &c.Cost},
		{"rarity", &c.Rarity},
		{"type", &c.Type},
		{"dice", &c.Dice},
	}
	for _, r := range required {
		ok, err := doc.Decode(r.field, r.dst)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("card %q: missing field %q", name, r.field)
		}
	}

	if _, err := doc.Decode("grit", &c.Grit); err != nil {
		return nil, err
	}
	if _, err := doc.Decode("preamble", &c.Preamble); err != nil {
		return nil, err
	}
	if c.Art, _, err = doc.FilePath("art"); err != nil {
		return nil, err
	}
	var qr QR
	if ok, err := doc.Decode("qr", &qr); err != nil {
		return nil, err
	} else if ok {
		if qr.Text == "" {
			return nil, fmt.Errorf("card %q: qr needs text", name)
		}
		if qr.Size <= 0 {
			qr.Size = 128
		}
		c.QR = &qr
	}

	for i, d := range c.Dice {
		if d.Type == "" {
			return nil, fmt.Errorf("card %q: die %d has no type", name, i+1)
		}
	}
	return c, nil
}

// LoadCard loads and decodes the card data file at path.
func LoadCard(path string) (*Card, error) {
	doc, err := datafile.Load(path)
	if err != nil {
		return nil, err
	}
	c, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return c, nil
}

// LoadCardsFromDataDir loads every JSON/YAML card in dataDir, sorted by file
// name. Files without a name (shared parents) are skipped.
func LoadCardsFromDataDir(dataDir string) ([]Card, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			files = append(files, filepath.Join(dataDir, e.Name()))
		}
	}
	sort.Strings(files)

	var out []Card
	for _, f := range files {
		c, err := LoadCard(f)
		if errors.Is(err, ErrNotACard) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no cards found in %s", dataDir)
	}
	return out, nil
}
