package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
assets: /srv/assets
log_level: debug
colors:
  keyword: "#123456"
layout:
  text_right: 990
  mini:
    down: 650
rarities:
  - name: Paperback
    grit: pb.png
    stroke: "#000000"
`), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/assets", cfg.Assets)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "#123456", cfg.Colors.Keyword)
	assert.Equal(t, "#ffffff", cfg.Colors.Desc, "untouched keys keep defaults")
	assert.Equal(t, 990, cfg.Layout.TextRight)
	assert.Equal(t, 650, cfg.Layout.Mini.Down)
	assert.Equal(t, 20, cfg.Layout.Mini.Left)

	r, ok := cfg.Rarity("paperback")
	require.True(t, ok)
	assert.Equal(t, "pb.png", r.Grit)
	_, ok = cfg.Rarity("limited")
	assert.False(t, ok, "a configured list replaces the default table")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CARDGEN_LAYOUT_TEXT_LEFT", "500")
	t.Setenv("CARDGEN_SERVER_ADDR", ":9000")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Layout.TextLeft)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.Colors.Offense = "pink"
	assert.ErrorContains(t, cfg.Validate(), "colors.offense")

	cfg = Defaults()
	cfg.Layout.TextRight = cfg.Layout.TextLeft
	assert.ErrorContains(t, cfg.Validate(), "text_right")

	cfg = Defaults()
	cfg.Layout.Mini.Down = 0
	assert.ErrorContains(t, cfg.Validate(), "mini")
}

func TestRarityIsCaseInsensitive(t *testing.T) {
	r, ok := Defaults().Rarity("Objet d'Art")
	require.True(t, ok)
	assert.Equal(t, "cost_grit_objet.png", r.Grit)
}

func TestKeywordPathDefaultsToAssets(t *testing.T) {
	cfg := Defaults()
	cfg.Assets = "/srv/assets"
	assert.Equal(t, filepath.Join("/srv/assets", "keywords.json"), cfg.KeywordPath())

	cfg.Keywords = "custom.yaml"
	assert.Equal(t, "custom.yaml", cfg.KeywordPath())
}
