package markup

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/youruser/cardgen/internal/keyword"
)

// Resolver looks up keyword entries. *keyword.Dictionary implements it.
type Resolver interface {
	Resolve(name string) (*keyword.Entry, error)
}

// ImageLoader opens a keyword icon.
type ImageLoader func(path string) (image.Image, error)

// Tokenizer splits markup into tokens. Icons are loaded once per tokenizer.
type Tokenizer struct {
	Keywords  Resolver
	LoadImage ImageLoader

	icons map[string]image.Image
}

// OpenIcon is the default ImageLoader: it decodes the file at path.
func OpenIcon(path string) (image.Image, error) {
	return imaging.Open(path)
}

// NewTokenizer returns a Tokenizer that opens icons from disk.
func NewTokenizer(keywords Resolver) *Tokenizer {
	return &Tokenizer{Keywords: keywords, LoadImage: OpenIcon}
}

// Tokenize is a shorthand for NewTokenizer(keywords).Tokenize(text).
func Tokenize(text string, keywords Resolver) ([]Token, error) {
	return NewTokenizer(keywords).Tokenize(text)
}

// Tokenize scans text for single-level `{name}` spans. Text outside spans
// becomes Regular words; each span expands to the keyword's icon and words.
// An unmatched brace ends keyword scanning and the rest is plain text.
func (t *Tokenizer) Tokenize(text string) ([]Token, error) {
	var out []Token
	for {
		start := strings.IndexByte(text, '{')
		end := -1
		if start >= 0 {
			if i := strings.IndexByte(text[start+1:], '}'); i >= 0 {
				end = start + 1 + i
			}
		}
		if end < 0 {
			return appendRegular(out, text), nil
		}

		out = appendRegular(out, text[:start])
		name := text[start+1 : end]
		entry, err := t.Keywords.Resolve(name)
		if err != nil {
			return nil, err
		}

		if entry.Image != nil {
			img, err := t.icon(entry.Image.Path)
			if err != nil {
				return nil, fmt.Errorf("keyword %q: loading icon: %w", name, err)
			}
			out = append(out, KeywordImage{Name: name, Image: img, Recolor: entry.Image.ConvertColor})
		}
		if entry.Text != nil {
			for _, w := range words(entry.Text.Content) {
				out = append(out, KeywordText{Text: w, Color: entry.Text.Color})
			}
			if strings.HasSuffix(entry.Text.Content, "\n") {
				out = append(out, Break{})
			}
		}
		text = text[end+1:]
	}
}

func (t *Tokenizer) icon(path string) (image.Image, error) {
	if img, ok := t.icons[path]; ok {
		return img, nil
	}
	load := t.LoadImage
	if load == nil {
		load = OpenIcon
	}
	img, err := load(path)
	if err != nil {
		return nil, err
	}
	if t.icons == nil {
		t.icons = map[string]image.Image{}
	}
	t.icons[path] = img
	return img, nil
}

func appendRegular(out []Token, s string) []Token {
	for _, w := range words(s) {
		out = append(out, Regular{Text: w})
	}
	return out
}
