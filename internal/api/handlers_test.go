package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/cardgen/internal/config"
	"github.com/youruser/cardgen/internal/render"
)

func saveSolid(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, imaging.Save(imaging.New(w, h, c), path))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestRouter(t *testing.T) (*gin.Engine, config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	saveSolid(t, filepath.Join(dir, "assets", "base.png"), 1000, 720, color.NRGBA{R: 20, G: 20, B: 20, A: 255})
	writeFile(t, filepath.Join(dir, "assets", "template.json"), `{
		"width": 1000, "height": 720,
		"art": {"x": 0, "y": 300, "width": 500, "height": 400},
		"layers": [{"name": "base", "path": "base.png"}]
	}`)
	saveSolid(t, filepath.Join(dir, "assets", "ruina", "slash.png"), 24, 48, color.NRGBA{G: 255, A: 255})
	writeFile(t, filepath.Join(dir, "assets", "keywords.json"), `{
		"OnHit": {"text": {"content": "On Hit"}},
		"Sum": {"text": {"content": "Summation:\n"}}
	}`)
	writeFile(t, filepath.Join(dir, "data", "melee.json"), `{"type": "Melee", "rarity": "Paperback", "grit": false}`)
	writeFile(t, filepath.Join(dir, "data", "strike.json"), `{
		"parent": "melee.json", "name": "Strike", "cost": 1,
		"dice": [{"type": "slash", "range": "3-7", "effect": "{OnHit} Deal 2"}]
	}`)
	writeFile(t, filepath.Join(dir, "data", "guard.json"), `{
		"parent": "melee.json", "name": "Guard", "cost": 0, "rarity": "Limited",
		"dice": [{"type": "slash", "range": "1-2"}]
	}`)

	cfg := config.Defaults()
	cfg.Assets = filepath.Join(dir, "assets")
	cfg.Server.DataDir = filepath.Join(dir, "data")
	assets, err := render.LoadAssets(cfg)
	require.NoError(t, err)

	r := gin.New()
	RegisterRoutes(r, NewServer(cfg, assets, nil))
	return r, cfg
}

func do(r *gin.Engine, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestRenderCard(t *testing.T) {
	r, cfg := newTestRouter(t)
	body := `{"parent": "melee.json", "name": "Strike", "cost": 1,
		"dice": [{"type": "slash", "range": "3-7", "effect": "{OnHit} Deal 2"}]}`

	w := do(r, http.MethodPost, "/api/cards/render", "application/json", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1000, 720), img.Bounds())

	w = do(r, http.MethodPost, "/api/cards/render?mini=true", "application/json", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	img, err = png.Decode(w.Body)
	require.NoError(t, err)
	m := cfg.Layout.Mini
	assert.Equal(t, image.Rect(0, 0, m.Right-m.Left, m.Down-m.Up), img.Bounds())
}

func TestRenderCardYAML(t *testing.T) {
	r, _ := newTestRouter(t)
	body := "parent: melee.json\nname: Strike\ncost: 1\ndice:\n  - type: slash\n    range: 3-7\n"

	w := do(r, http.MethodPost, "/api/cards/render?mini=1", "application/yaml", body)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRenderCardErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/cards/render", "application/json", `{"name": "Strike",`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/cards/render", "application/json", `{"parent": "melee.json"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(r, http.MethodPost, "/api/cards/render", "application/json", `{"parent": "melee.json", "name": "Odd", "cost": 1,
		"dice": [{"type": "slash", "range": "1", "effect": "{Missing}"}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `the keyword \"Missing\" was not found`)
}

func TestRenderCardParentCycle(t *testing.T) {
	r, cfg := newTestRouter(t)
	writeFile(t, filepath.Join(cfg.Server.DataDir, "loop.json"), `{"parent": "loop.json", "type": "Melee"}`)

	w := do(r, http.MethodPost, "/api/cards/render", "application/json", `{"parent": "loop.json", "name": "Loop"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "parent cycle")

	w = do(r, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWrapMarkup(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/markup/wrap", "application/json", `{"text": "{Sum}Deal 2 damage", "width": 5000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Width int           `json:"width"`
		Lines []wrappedLine `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "Summation: ", resp.Lines[0].Text)
	assert.Equal(t, "keyword_text", resp.Lines[0].Tokens[0].Kind)
	assert.Equal(t, "Deal 2 damage ", resp.Lines[1].Text)
	assert.Equal(t, "regular", resp.Lines[1].Tokens[0].Kind)
	assert.Greater(t, resp.Lines[1].Width, 0)
	assert.LessOrEqual(t, resp.Lines[1].Width, 5000)
}

func TestWrapMarkupBadRequest(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/markup/wrap", "application/json", `{"text": "hi", "width": 0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/markup/wrap", "application/json", `{"text": "{Nope}", "width": 100}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestFilterCards(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/cards", "application/json", `{"Rarities": ["limited"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Count int `json:"count"`
		Cards []struct {
			Name string `json:"name"`
		} `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Guard", resp.Cards[0].Name)
}

func TestQR(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/qr?text=card:strike&size=64", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	w = do(r, http.MethodGet, "/api/qr", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
