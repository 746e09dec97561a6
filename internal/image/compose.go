package imagepkg

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// ComposeTemplate flattens the template for one card. Art, when given, is
// scaled to the art box width and placed under every layer.
func ComposeTemplate(tpl *Template, attrs Attributes, art image.Image) (*image.NRGBA, error) {
	if err := tpl.check(attrs); err != nil {
		return nil, err
	}

	canvas := imaging.New(tpl.Width, tpl.Height, color.NRGBA{})

	if art != nil {
		if w := tpl.Art.Width; w > 0 && art.Bounds().Dx() != w {
			h := int(float64(w) * float64(art.Bounds().Dy()) / float64(art.Bounds().Dx()))
			art = imaging.Resize(art, w, h, imaging.Lanczos)
		}
		Overlay(canvas, art, image.Pt(tpl.Art.X, tpl.Art.Y))
	}

	for i := range tpl.Layers {
		l := &tpl.Layers[i]
		if l.visible(attrs) {
			Overlay(canvas, l.img, image.Pt(l.X, l.Y))
		}
	}
	return canvas, nil
}

// Overlay alpha-composites src onto dst with its top-left corner at pt.
func Overlay(dst draw.Image, src image.Image, pt image.Point) {
	b := src.Bounds()
	draw.Draw(dst, image.Rectangle{Min: pt, Max: pt.Add(b.Size())}, src, b.Min, draw.Over)
}
