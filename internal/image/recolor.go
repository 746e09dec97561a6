package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// ParseHex parses "#rrggbb" or "#rgb" into an opaque color.
func ParseHex(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Colorize maps the luminance of img onto a black → mid → white gradient,
// with mid reached at midpoint. The source alpha channel is kept as a mask.
func Colorize(img image.Image, mid color.Color, midpoint int) *image.NRGBA {
	m, _ := colorful.MakeColor(opaque(mid))
	black := colorful.Color{}
	white := colorful.Color{R: 1, G: 1, B: 1}

	var lut [256][3]uint8
	for l := 0; l < 256; l++ {
		var c colorful.Color
		switch {
		case l <= midpoint && midpoint > 0:
			c = black.BlendRgb(m, float64(l)/float64(midpoint))
		case l <= midpoint:
			c = m
		default:
			c = m.BlendRgb(white, float64(l-midpoint)/float64(255-midpoint))
		}
		r, g, b := c.Clamped().RGB255()
		lut[l] = [3]uint8{r, g, b}
	}

	out := imaging.Grayscale(img)
	for i := 0; i < len(out.Pix); i += 4 {
		v := lut[out.Pix[i]]
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = v[0], v[1], v[2]
	}
	return out
}

func opaque(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n
}
