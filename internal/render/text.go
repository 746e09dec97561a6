// Package render draws cards: the composed template plus title, cost and
// keyword-markup description text.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	imagepkg "github.com/youruser/cardgen/internal/image"
	"github.com/youruser/cardgen/internal/markup"
)

// TextRun measures and draws token lines in one font face.
type TextRun struct {
	Face    font.Face
	Ascent  int
	Descent int

	// KeywordColor colors KeywordText tokens without an override.
	KeywordColor color.Color
	// Midpoint is the luminance that maps to the run color when recoloring icons.
	Midpoint int
}

// NewTextRun reads the face metrics.
func NewTextRun(face font.Face, keywordColor color.Color, midpoint int) *TextRun {
	m := face.Metrics()
	return &TextRun{
		Face:         face,
		Ascent:       m.Ascent.Ceil(),
		Descent:      m.Descent.Ceil(),
		KeywordColor: keywordColor,
		Midpoint:     midpoint,
	}
}

func (r *TextRun) textWidth(s string) int {
	return font.MeasureString(r.Face, s).Ceil()
}

// iconSize is the drawn size of an icon: shrunk to the ascent when taller.
func (r *TextRun) iconSize(img image.Image) (int, int) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if h > r.Ascent && h > 0 {
		return int(float64(w) / float64(h) * float64(r.Ascent)), r.Ascent
	}
	return w, h
}

// Width is the pixel width of tokens drawn as one run. It has no side
// effects and serves as the markup.MeasureFunc for wrapping.
func (r *TextRun) Width(tokens []markup.Token) int {
	width := 0
	for _, tok := range tokens {
		switch t := tok.(type) {
		case markup.Regular:
			width += r.textWidth(t.Text)
		case markup.KeywordText:
			width += r.textWidth(t.Text)
		case markup.KeywordImage:
			w, _ := r.iconSize(t.Image)
			width += w
		case markup.Break:
		default:
			panic(fmt.Sprintf("render: unknown token %T", tok))
		}
	}
	return width
}

// Wrap breaks tokens into lines no wider than maxWidth.
func (r *TextRun) Wrap(tokens []markup.Token, maxWidth int) [][]markup.Token {
	return markup.Wrap(tokens, r.Width, maxWidth)
}

// Draw paints tokens left to right with the top of the text row at origin.
// It returns the width drawn.
func (r *TextRun) Draw(dst draw.Image, tokens []markup.Token, origin image.Point, defaultColor color.Color) (int, error) {
	x := origin.X
	for _, tok := range tokens {
		switch t := tok.(type) {
		case markup.Regular:
			x += r.drawText(dst, t.Text, x, origin.Y, defaultColor)
		case markup.KeywordText:
			c := r.KeywordColor
			if t.Color != "" {
				parsed, err := imagepkg.ParseHex(t.Color)
				if err != nil {
					return 0, fmt.Errorf("keyword color %q: %w", t.Color, err)
				}
				c = parsed
			}
			x += r.drawText(dst, t.Text, x, origin.Y, c)
		case markup.KeywordImage:
			icon := t.Image
			if t.Recolor {
				icon = imagepkg.Colorize(icon, defaultColor, r.Midpoint)
			}
			w, h := r.iconSize(icon)
			if h != icon.Bounds().Dy() {
				icon = imaging.Resize(icon, w, h, imaging.Lanczos)
			}
			y := origin.Y + (r.Ascent+r.Descent)/2 - h/2
			imagepkg.Overlay(dst, icon, image.Pt(x, y))
			x += w
		case markup.Break:
		default:
			panic(fmt.Sprintf("render: unknown token %T", tok))
		}
	}
	return x - origin.X, nil
}

func (r *TextRun) drawText(dst draw.Image, s string, x, y int, c color.Color) int {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: r.Face,
		Dot:  fixed.P(x, y+r.Ascent),
	}
	d.DrawString(s)
	return r.textWidth(s)
}

// Paragraph tokenizes, wraps and draws markup inside a box of the given width
// starting at origin, one ascent per line. It returns the height used.
func (r *TextRun) Paragraph(dst draw.Image, tz *markup.Tokenizer, text string, origin image.Point, width int, c color.Color) (int, error) {
	tokens, err := tz.Tokenize(text)
	if err != nil {
		return 0, err
	}
	height := 0
	for _, line := range r.Wrap(tokens, width) {
		if _, err := r.Draw(dst, line, origin.Add(image.Pt(0, height)), c); err != nil {
			return 0, err
		}
		height += r.Ascent
	}
	return height, nil
}
