// Package keyword resolves `{name}` markup keywords against a keyword
// dictionary.
package keyword

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/youruser/cardgen/internal/datafile"
)

// ErrMissingKeyword is matched by every MissingKeywordError.
var ErrMissingKeyword = errors.New("keyword not found")

// MissingKeywordError names a keyword absent from the whole dictionary chain.
type MissingKeywordError struct {
	Name string
}

func (e *MissingKeywordError) Error() string {
	return fmt.Sprintf("the keyword %q was not found in the keyword dictionary", e.Name)
}

func (e *MissingKeywordError) Is(target error) bool { return target == ErrMissingKeyword }

// Text is the styled text part of an entry.
type Text struct {
	Content string
	// Color is a hex override; empty means the renderer's keyword color.
	Color string
}

// Image is the icon part of an entry.
type Image struct {
	// Path is resolved against the dictionary file that defined the entry.
	Path         string
	ConvertColor bool
}

// Entry is one resolved keyword. When both parts are set the image renders
// first.
type Entry struct {
	Name  string
	Text  *Text
	Image *Image
}

type rawEntry struct {
	Text *struct {
		Content string  `json:"content"`
		Color   *string `json:"color"`
	} `json:"text"`
	Image *struct {
		Path         string `json:"path"`
		ConvertColor bool   `json:"convert_color"`
	} `json:"image"`
}

// Dictionary resolves keywords from a data document. It is not safe for
// concurrent use.
type Dictionary struct {
	doc     *datafile.Document
	entries map[string]*Entry
}

// New wraps an already loaded document.
func New(doc *datafile.Document) *Dictionary {
	return &Dictionary{doc: doc, entries: map[string]*Entry{}}
}

// Open loads the dictionary file at path.
func Open(path string) (*Dictionary, error) {
	doc, err := datafile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading keyword dictionary: %w", err)
	}
	return New(doc), nil
}

// Resolve looks name up exactly as written.
func (d *Dictionary) Resolve(name string) (*Entry, error) {
	if e, ok := d.entries[name]; ok {
		return e, nil
	}

	field, ok, err := d.doc.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("resolving keyword %q: %w", name, err)
	}
	if !ok || string(field.Raw) == "null" {
		return nil, &MissingKeywordError{Name: name}
	}

	var raw rawEntry
	if err := json.Unmarshal(field.Raw, &raw); err != nil {
		return nil, fmt.Errorf("keyword %q: %w", name, err)
	}

	e := &Entry{Name: name}
	if raw.Text != nil {
		e.Text = &Text{Content: raw.Text.Content}
		if raw.Text.Color != nil {
			if _, err := colorful.Hex(*raw.Text.Color); err != nil {
				return nil, fmt.Errorf("keyword %q: bad color %q: %w", name, *raw.Text.Color, err)
			}
			e.Text.Color = *raw.Text.Color
		}
	}
	if raw.Image != nil {
		if raw.Image.Path == "" {
			return nil, fmt.Errorf("keyword %q: image has no path", name)
		}
		e.Image = &Image{
			Path:         datafile.JoinPath(field.Dir, raw.Image.Path),
			ConvertColor: raw.Image.ConvertColor,
		}
	}

	d.entries[name] = e
	return e, nil
}
