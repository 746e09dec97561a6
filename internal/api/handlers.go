// Package api exposes card rendering over HTTP.
package api

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/youruser/cardgen/internal/cards"
	"github.com/youruser/cardgen/internal/config"
	"github.com/youruser/cardgen/internal/datafile"
	imagepkg "github.com/youruser/cardgen/internal/image"
	"github.com/youruser/cardgen/internal/keyword"
	"github.com/youruser/cardgen/internal/markup"
	"github.com/youruser/cardgen/internal/render"
)

// Server holds what requests share: configuration and the loaded assets.
// Dictionaries and renderers are built per request.
type Server struct {
	Config config.Config
	Assets *render.Assets
	Logger *slog.Logger
}

func NewServer(cfg config.Config, assets *render.Assets, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Config: cfg, Assets: assets, Logger: logger}
}

func (s *Server) renderer() (*render.Renderer, error) {
	dict, err := keyword.Open(s.Config.KeywordPath())
	if err != nil {
		return nil, err
	}
	return render.New(s.Config, s.Assets, dict, s.Logger)
}

// status maps data and markup errors to 422, everything else to 500.
func status(err error) int {
	switch {
	case errors.Is(err, keyword.ErrMissingKeyword), errors.Is(err, cards.ErrNotACard):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, code int, err error) {
	c.JSON(code, gin.H{"error": err.Error()})
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// filterHandler lists cards in the data directory matching the options.
func (s *Server) filterHandler(c *gin.Context) {
	var opt cards.FilterOptions
	if err := c.BindJSON(&opt); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	all, err := cards.LoadCardsFromDataDir(s.Config.Server.DataDir)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	out := cards.Filter(all, opt)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "cards": out})
}

// renderHandler renders the card document in the body to a PNG. The body
// may name a parent and relative files; they resolve against the data
// directory.
func (s *Server) renderHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	format := datafile.FormatJSON
	if strings.Contains(c.ContentType(), "yaml") {
		format = datafile.FormatYAML
	}
	doc, err := datafile.Parse(body, s.Config.Server.DataDir, format)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	card, err := cards.FromDocument(doc)
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, err)
		return
	}
	mini, _ := strconv.ParseBool(c.Query("mini"))

	r, err := s.renderer()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	img, err := r.Render(card, mini)
	if err != nil {
		s.Logger.Warn("render failed", "card", card.Name, "err", err)
		fail(c, status(err), err)
		return
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

type wrapRequest struct {
	Text  string `json:"text" binding:"required"`
	Width int    `json:"width" binding:"required,gt=0"`
}

type wrappedToken struct {
	Kind  string `json:"kind"`
	Text  string `json:"text,omitempty"`
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

type wrappedLine struct {
	Text   string         `json:"text"`
	Width  int            `json:"width"`
	Tokens []wrappedToken `json:"tokens"`
}

// wrapHandler tokenizes and wraps markup with the description font without
// drawing anything.
func (s *Server) wrapHandler(c *gin.Context) {
	var req wrapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	r, err := s.renderer()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	wrapped, err := r.WrapText(req.Text, req.Width)
	if err != nil {
		fail(c, status(err), err)
		return
	}

	run := r.Text()
	lines := []wrappedLine{}
	for _, line := range wrapped {
		wl := wrappedLine{Text: markup.String(line), Width: run.Width(line)}
		for _, tok := range line {
			wt := wrappedToken{Kind: markup.Kind(tok)}
			switch t := tok.(type) {
			case markup.Regular:
				wt.Text = t.Text
			case markup.KeywordText:
				wt.Text, wt.Color = t.Text, t.Color
			case markup.KeywordImage:
				wt.Name = t.Name
			}
			wl.Tokens = append(wl.Tokens, wt)
		}
		lines = append(lines, wl)
	}
	c.JSON(http.StatusOK, gin.H{"width": req.Width, "lines": lines})
}

// qr endpoint returns a PNG of a QR for "text" query param
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		fail(c, http.StatusBadRequest, errors.New("missing text"))
		return
	}
	size := 128
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 {
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}
