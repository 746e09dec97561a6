// Package markup turns card description strings containing `{keyword}` spans
// into typed tokens and wraps those tokens into width-bounded lines.
package markup

import (
	"fmt"
	"image"
	"strings"
)

// Token is one unit of laid-out markup. The set of implementations is closed:
// Regular, KeywordText, KeywordImage and Break.
type Token interface {
	token()
}

// Regular is a plain word followed by a single space.
type Regular struct {
	Text string
}

// KeywordText is a word of keyword text followed by a single space.
type KeywordText struct {
	Text string
	// Color is a hex override, empty for the renderer's keyword color.
	Color string
}

// KeywordImage is an inline keyword icon.
type KeywordImage struct {
	Name    string
	Image   image.Image
	Recolor bool
}

// Break ends the current line. It draws nothing.
type Break struct{}

func (Regular) token()      {}
func (KeywordText) token()  {}
func (KeywordImage) token() {}
func (Break) token()        {}

// Kind names the token variant, for logs and JSON output.
func Kind(t Token) string {
	switch t.(type) {
	case Regular:
		return "regular"
	case KeywordText:
		return "keyword_text"
	case KeywordImage:
		return "keyword_image"
	case Break:
		return "break"
	default:
		panic(fmt.Sprintf("markup: unknown token %T", t))
	}
}

// String renders a line of tokens back to text; images show as {name}.
func String(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		switch t := t.(type) {
		case Regular:
			b.WriteString(t.Text)
		case KeywordText:
			b.WriteString(t.Text)
		case KeywordImage:
			b.WriteString("{" + t.Name + "}")
		case Break:
		default:
			panic(fmt.Sprintf("markup: unknown token %T", t))
		}
	}
	return b.String()
}

func words(s string) []string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = f + " "
	}
	return fields
}
