package render

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/youruser/cardgen/internal/cards"
	"github.com/youruser/cardgen/internal/config"
	imagepkg "github.com/youruser/cardgen/internal/image"
	"github.com/youruser/cardgen/internal/markup"
	"github.com/youruser/cardgen/internal/util"
)

type palette struct {
	title, cost, desc, offense, defense, keyword color.NRGBA
}

// Renderer draws cards. It owns its font faces and keyword tokenizer and is
// not safe for concurrent use; create one per rendering run.
type Renderer struct {
	cfg    config.Config
	assets *Assets
	logger *slog.Logger

	tokenizer *markup.Tokenizer
	titleFace font.Face
	costFace  font.Face
	desc      *TextRun
	colors    palette
	diceIcons map[string]image.Image
}

// New builds a renderer resolving keywords through keywords.
func New(cfg config.Config, assets *Assets, keywords markup.Resolver, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		cfg:       cfg,
		assets:    assets,
		logger:    logger,
		tokenizer: markup.NewTokenizer(keywords),
		diceIcons: map[string]image.Image{},
	}

	for _, c := range []struct {
		dst *color.NRGBA
		hex string
	}{
		{&r.colors.title, cfg.Colors.Title},
		{&r.colors.cost, cfg.Colors.Cost},
		{&r.colors.desc, cfg.Colors.Desc},
		{&r.colors.offense, cfg.Colors.Offense},
		{&r.colors.defense, cfg.Colors.Defense},
		{&r.colors.keyword, cfg.Colors.Keyword},
	} {
		parsed, err := imagepkg.ParseHex(c.hex)
		if err != nil {
			return nil, fmt.Errorf("color %q: %w", c.hex, err)
		}
		*c.dst = parsed
	}

	var err error
	if r.titleFace, err = imagepkg.NewFace(assets.Title, cfg.Fonts.Title.Size); err != nil {
		return nil, err
	}
	if r.costFace, err = imagepkg.NewFace(assets.Cost, cfg.Fonts.Cost.Size); err != nil {
		return nil, err
	}
	descFace, err := imagepkg.NewFace(assets.Desc, cfg.Fonts.Desc.Size)
	if err != nil {
		return nil, err
	}
	r.desc = NewTextRun(descFace, r.colors.keyword, cfg.ColorizeMidpoint)
	return r, nil
}

// Text returns the description text run, for measuring markup.
func (r *Renderer) Text() *TextRun { return r.desc }

// WrapText tokenizes markup and wraps it to width in the description font.
// Nothing is drawn.
func (r *Renderer) WrapText(text string, width int) ([][]markup.Token, error) {
	tokens, err := r.tokenizer.Tokenize(text)
	if err != nil {
		return nil, err
	}
	return r.desc.Wrap(tokens, width), nil
}

// Attributes are the template selectors for a card.
func Attributes(c *cards.Card) imagepkg.Attributes {
	attrs := imagepkg.Attributes{}
	attrs.Set("rarity", c.Rarity)
	attrs.Set("type", c.Type)
	attrs.Set("grit", strconv.FormatBool(c.Grit))
	attrs.Set("dice_count", strconv.Itoa(len(c.Dice)))
	for i, d := range c.Dice {
		attrs.Set("dice."+strconv.Itoa(i+1), d.Type)
	}
	return attrs
}

// Render draws the full card, or only the cover when mini is set.
func (r *Renderer) Render(c *cards.Card, mini bool) (*image.NRGBA, error) {
	var art image.Image
	if c.Art != "" {
		var err error
		if art, err = imagepkg.OpenImage(c.Art); err != nil {
			return nil, fmt.Errorf("card art: %w", err)
		}
	}

	img, err := imagepkg.ComposeTemplate(r.assets.Template, Attributes(c), art)
	if err != nil {
		return nil, err
	}

	if c.QR != nil {
		if err := imagepkg.StampQR(img, c.QR.Text, c.QR.Size, image.Pt(c.QR.X, c.QR.Y)); err != nil {
			return nil, fmt.Errorf("qr: %w", err)
		}
	}

	r.drawTitle(img, c.Name)
	if err := r.drawCost(img, c); err != nil {
		return nil, err
	}

	if mini {
		m := r.cfg.Layout.Mini
		return imaging.Crop(img, image.Rect(m.Left, m.Up, m.Right, m.Down)), nil
	}

	layout, err := r.LayoutText(c)
	if err != nil {
		return nil, err
	}
	if err := r.drawLayout(img, layout); err != nil {
		return nil, err
	}
	r.logger.Debug("rendered card", "name", c.Name, "lines", len(layout.Lines), "height", layout.Height)
	return img, nil
}

// RenderFile renders the card data at dataPath to a PNG at outPath. Nothing
// is written unless the whole render succeeds.
func (r *Renderer) RenderFile(dataPath, outPath string, mini bool) error {
	c, err := cards.LoadCard(dataPath)
	if err != nil {
		return err
	}
	img, err := r.Render(c, mini)
	if err != nil {
		return fmt.Errorf("rendering %q: %w", c.Name, err)
	}
	if err := util.WritePNG(outPath, img); err != nil {
		return err
	}
	r.logger.Info("wrote card", "name", c.Name, "output", outPath, "mini", mini)
	return nil
}

func (r *Renderer) drawTitle(img *image.NRGBA, name string) {
	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetFontFace(r.titleFace)
	dc.SetColor(r.colors.title)

	l := r.cfg.Layout
	cx, cy := float64(l.TitleCenterX), float64(l.TitleCenterY)
	// Positive angles tilt the banner counter-clockwise.
	dc.RotateAbout(gg.Radians(-l.TitleAngle), cx, cy)
	for i, line := range strings.Split(name, "\n") {
		dc.DrawStringAnchored(line, cx, cy+float64(i)*dc.FontHeight()*1.2, 0.5, 0)
	}
	imagepkg.Overlay(img, dc.Image(), b.Min)
}

func (r *Renderer) drawCost(img *image.NRGBA, c *cards.Card) error {
	rarity, ok := r.cfg.Rarity(c.Rarity)
	if !ok {
		return fmt.Errorf("no cost style for rarity %q", c.Rarity)
	}
	stroke, err := imagepkg.ParseHex(rarity.Stroke)
	if err != nil {
		return fmt.Errorf("rarity %q stroke: %w", rarity.Name, err)
	}

	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetFontFace(r.costFace)

	l := r.cfg.Layout
	text := string(c.Cost)
	x := float64(l.CostX)
	y := float64(l.CostY + r.costFace.Metrics().Ascent.Ceil())
	n := l.CostStroke
	dc.SetColor(stroke)
	for dy := -n; dy <= n; dy++ {
		for dx := -n; dx <= n; dx++ {
			if dx*dx+dy*dy <= n*n {
				dc.DrawString(text, x+float64(dx), y+float64(dy))
			}
		}
	}
	dc.SetColor(r.colors.cost)
	dc.DrawString(text, x, y)
	imagepkg.Overlay(img, dc.Image(), b.Min)

	if c.Grit {
		grit, err := imaging.Open(r.assets.Path(filepath.Join("cost_grit", rarity.Grit)))
		if err != nil {
			return fmt.Errorf("cost grit: %w", err)
		}
		imagepkg.Overlay(img, grit, b.Min)
	}
	return nil
}

// PlacedLine is a wrapped token line at its final position.
type PlacedLine struct {
	Tokens []markup.Token
	At     image.Point
	Color  color.NRGBA
}

// PlacedIcon is a dice icon at its final position.
type PlacedIcon struct {
	Image image.Image
	At    image.Point
}

// TextLayout is the measured description box. Computing it draws nothing.
type TextLayout struct {
	Lines  []PlacedLine
	Icons  []PlacedIcon
	Height int
}

// LayoutText measures and positions the preamble and dice rows.
func (r *Renderer) LayoutText(c *cards.Card) (*TextLayout, error) {
	l := r.cfg.Layout
	run := r.desc
	out := &TextLayout{}
	y := l.TextUp

	if c.Preamble != "" {
		tokens, err := r.tokenizer.Tokenize(c.Preamble)
		if err != nil {
			return nil, fmt.Errorf("preamble: %w", err)
		}
		for _, line := range run.Wrap(tokens, l.TextRight-l.TextLeft) {
			out.Lines = append(out.Lines, PlacedLine{Tokens: line, At: image.Pt(l.TextLeft, y), Color: r.colors.desc})
			y += run.Ascent
		}
		y += l.DiceSpacer
	}

	for i, d := range c.Dice {
		typ := strings.ToLower(d.Type)
		col := r.colors.offense
		if slices.Contains(r.cfg.DefenseDice, typ) {
			col = r.colors.defense
		}
		icon, err := r.diceIcon(typ)
		if err != nil {
			return nil, err
		}
		iw, ih := icon.Bounds().Dx(), icon.Bounds().Dy()

		rng, err := r.tokenizer.Tokenize(d.Range)
		if err != nil {
			return nil, fmt.Errorf("die %d range: %w", i+1, err)
		}

		height := 0
		if d.Effect != "" {
			effect, err := r.tokenizer.Tokenize(d.Effect)
			if err != nil {
				return nil, fmt.Errorf("die %d effect: %w", i+1, err)
			}
			x := l.TextLeft + iw + run.Width(rng) + l.TextSpacer
			for _, line := range run.Wrap(effect, l.TextRight-x) {
				out.Lines = append(out.Lines, PlacedLine{Tokens: line, At: image.Pt(x, y+height), Color: col})
				height += run.Ascent
			}
		} else {
			height = max(run.Ascent, ih)
		}

		out.Lines = append(out.Lines, PlacedLine{
			Tokens: rng,
			At:     image.Pt(l.TextLeft+iw, y+height/2-(run.Ascent+run.Descent)/2),
			Color:  col,
		})
		out.Icons = append(out.Icons, PlacedIcon{Image: icon, At: image.Pt(l.TextLeft, y+height/2-ih/2)})
		y += height + l.DiceSpacer
	}

	out.Height = y - l.TextUp
	return out, nil
}

func (r *Renderer) drawLayout(img *image.NRGBA, layout *TextLayout) error {
	for _, line := range layout.Lines {
		if _, err := r.desc.Draw(img, line.Tokens, line.At, line.Color); err != nil {
			return err
		}
	}
	for _, icon := range layout.Icons {
		imagepkg.Overlay(img, icon.Image, icon.At)
	}
	return nil
}

func (r *Renderer) diceIcon(typ string) (image.Image, error) {
	if img, ok := r.diceIcons[typ]; ok {
		return img, nil
	}
	img, err := imaging.Open(r.assets.Path(filepath.Join("ruina", typ+".png")))
	if err != nil {
		return nil, fmt.Errorf("dice icon %q: %w", typ, err)
	}
	r.diceIcons[typ] = img
	return img, nil
}
