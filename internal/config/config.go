// Package config provides configuration types and defaults for cardgen.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"
)

// FontConfig selects a font file and pixel size. An empty Path uses the
// embedded Go Regular face.
type FontConfig struct {
	Path string  `mapstructure:"path"`
	Size float64 `mapstructure:"size"`
}

// FontsConfig holds the three faces drawn on a card.
type FontsConfig struct {
	Title FontConfig `mapstructure:"title"`
	Desc  FontConfig `mapstructure:"desc"`
	Cost  FontConfig `mapstructure:"cost"`
}

// ColorsConfig holds hex colors.
type ColorsConfig struct {
	Title   string `mapstructure:"title"`
	Cost    string `mapstructure:"cost"`
	Desc    string `mapstructure:"desc"`
	Offense string `mapstructure:"offense"`
	Defense string `mapstructure:"defense"`
	Keyword string `mapstructure:"keyword"`
}

// Box is a pixel rectangle given by its edges.
type Box struct {
	Left  int `mapstructure:"left"`
	Up    int `mapstructure:"up"`
	Right int `mapstructure:"right"`
	Down  int `mapstructure:"down"`
}

// LayoutConfig positions everything drawn over the template.
type LayoutConfig struct {
	TextLeft   int `mapstructure:"text_left"`
	TextUp     int `mapstructure:"text_up"`
	TextRight  int `mapstructure:"text_right"`
	TextSpacer int `mapstructure:"text_spacer"`
	DiceSpacer int `mapstructure:"dice_spacer"`

	TitleAngle   float64 `mapstructure:"title_angle"`
	TitleCenterX int     `mapstructure:"title_center_x"`
	TitleCenterY int     `mapstructure:"title_center_y"`

	CostX      int `mapstructure:"cost_x"`
	CostY      int `mapstructure:"cost_y"`
	CostStroke int `mapstructure:"cost_stroke"`

	Mini Box `mapstructure:"mini"`
}

// RarityConfig is the cost decoration for one rarity. Names are matched
// case-insensitively.
type RarityConfig struct {
	Name   string `mapstructure:"name"`
	Grit   string `mapstructure:"grit"`
	Stroke string `mapstructure:"stroke"`
}

// TemplateConfig locates the layered card template.
type TemplateConfig struct {
	Manifest string `mapstructure:"manifest"`
	// MD5 pins the template contents; empty skips the check.
	MD5 string `mapstructure:"md5"`
}

// ServerConfig configures `cardgen serve`.
type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	DataDir string `mapstructure:"data_dir"`
}

// Config holds all configuration options for cardgen.
type Config struct {
	Assets           string         `mapstructure:"assets"`
	Keywords         string         `mapstructure:"keywords"`
	LogLevel         string         `mapstructure:"log_level"`
	Template         TemplateConfig `mapstructure:"template"`
	Fonts            FontsConfig    `mapstructure:"fonts"`
	Colors           ColorsConfig   `mapstructure:"colors"`
	ColorizeMidpoint int            `mapstructure:"colorize_midpoint"`
	Layout           LayoutConfig   `mapstructure:"layout"`
	Rarities         []RarityConfig `mapstructure:"rarities"`
	DefenseDice      []string       `mapstructure:"defense_dice"`
	Server           ServerConfig   `mapstructure:"server"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Assets:   "assets",
		LogLevel: "info",
		Template: TemplateConfig{Manifest: "template.json"},
		Fonts: FontsConfig{
			Title: FontConfig{Path: "", Size: 40},
			Desc:  FontConfig{Path: "", Size: 32},
			Cost:  FontConfig{Path: "", Size: 146},
		},
		Colors: ColorsConfig{
			Title:   "#000000",
			Cost:    "#000000",
			Desc:    "#ffffff",
			Offense: "#ffb7ce",
			Defense: "#a1e3ee",
			Keyword: "#efd521",
		},
		ColorizeMidpoint: 127,
		Layout: LayoutConfig{
			TextLeft:     550,
			TextUp:       65,
			TextRight:    950,
			TextSpacer:   15,
			DiceSpacer:   10,
			TitleAngle:   11,
			TitleCenterX: 250,
			TitleCenterY: 200,
			CostX:        80,
			CostY:        39,
			CostStroke:   5,
			Mini:         Box{Left: 20, Up: 20, Right: 520, Down: 700},
		},
		Rarities: []RarityConfig{
			{Name: "paperback", Grit: "cost_grit_paperback.png", Stroke: "#9FE195"},
			{Name: "hardcover", Grit: "cost_grit_hardcover.png", Stroke: "#9FC3EF"},
			{Name: "limited", Grit: "cost_grit_limited.png", Stroke: "#B78BE5"},
			{Name: "objet d'art", Grit: "cost_grit_objet.png", Stroke: "#FFCB69"},
			{Name: "e.g.o", Grit: "cost_grit_ego.png", Stroke: "#FFFFDB"},
		},
		DefenseDice: []string{"block", "block_counter", "evade", "evade_counter"},
		Server:      ServerConfig{Addr: ":8080", DataDir: "."},
	}
}

// SetDefaults registers Defaults on v so env vars and files can override
// individual keys.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("assets", d.Assets)
	v.SetDefault("keywords", d.Keywords)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("template.manifest", d.Template.Manifest)
	v.SetDefault("template.md5", d.Template.MD5)
	v.SetDefault("fonts.title.path", d.Fonts.Title.Path)
	v.SetDefault("fonts.title.size", d.Fonts.Title.Size)
	v.SetDefault("fonts.desc.path", d.Fonts.Desc.Path)
	v.SetDefault("fonts.desc.size", d.Fonts.Desc.Size)
	v.SetDefault("fonts.cost.path", d.Fonts.Cost.Path)
	v.SetDefault("fonts.cost.size", d.Fonts.Cost.Size)
	v.SetDefault("colors.title", d.Colors.Title)
	v.SetDefault("colors.cost", d.Colors.Cost)
	v.SetDefault("colors.desc", d.Colors.Desc)
	v.SetDefault("colors.offense", d.Colors.Offense)
	v.SetDefault("colors.defense", d.Colors.Defense)
	v.SetDefault("colors.keyword", d.Colors.Keyword)
	v.SetDefault("colorize_midpoint", d.ColorizeMidpoint)
	v.SetDefault("layout.text_left", d.Layout.TextLeft)
	v.SetDefault("layout.text_up", d.Layout.TextUp)
	v.SetDefault("layout.text_right", d.Layout.TextRight)
	v.SetDefault("layout.text_spacer", d.Layout.TextSpacer)
	v.SetDefault("layout.dice_spacer", d.Layout.DiceSpacer)
	v.SetDefault("layout.title_angle", d.Layout.TitleAngle)
	v.SetDefault("layout.title_center_x", d.Layout.TitleCenterX)
	v.SetDefault("layout.title_center_y", d.Layout.TitleCenterY)
	v.SetDefault("layout.cost_x", d.Layout.CostX)
	v.SetDefault("layout.cost_y", d.Layout.CostY)
	v.SetDefault("layout.cost_stroke", d.Layout.CostStroke)
	v.SetDefault("layout.mini.left", d.Layout.Mini.Left)
	v.SetDefault("layout.mini.up", d.Layout.Mini.Up)
	v.SetDefault("layout.mini.right", d.Layout.Mini.Right)
	v.SetDefault("layout.mini.down", d.Layout.Mini.Down)
	v.SetDefault("rarities", d.Rarities)
	v.SetDefault("defense_dice", d.DefenseDice)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.data_dir", d.Server.DataDir)
}

// Load reads configuration from file (optional) and CARDGEN_* environment
// variables on top of the defaults.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("cardgen")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("cardgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks colors and geometry.
func (c Config) Validate() error {
	colors := map[string]string{
		"colors.title":   c.Colors.Title,
		"colors.cost":    c.Colors.Cost,
		"colors.desc":    c.Colors.Desc,
		"colors.offense": c.Colors.Offense,
		"colors.defense": c.Colors.Defense,
		"colors.keyword": c.Colors.Keyword,
	}
	for _, r := range c.Rarities {
		colors["rarities["+r.Name+"].stroke"] = r.Stroke
	}
	for key, hex := range colors {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, hex, err)
		}
	}
	if c.Layout.TextRight <= c.Layout.TextLeft {
		return fmt.Errorf("layout.text_right (%d) must be greater than layout.text_left (%d)", c.Layout.TextRight, c.Layout.TextLeft)
	}
	m := c.Layout.Mini
	if m.Right <= m.Left || m.Down <= m.Up {
		return fmt.Errorf("layout.mini box %+v is empty", m)
	}
	if c.ColorizeMidpoint < 0 || c.ColorizeMidpoint > 255 {
		return fmt.Errorf("colorize_midpoint %d out of range 0-255", c.ColorizeMidpoint)
	}
	return nil
}

// Rarity finds the decoration for a rarity name.
func (c Config) Rarity(name string) (RarityConfig, bool) {
	for _, r := range c.Rarities {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return RarityConfig{}, false
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// KeywordPath is the keyword dictionary file, keywords.json in the asset
// directory unless set.
func (c Config) KeywordPath() string {
	if c.Keywords != "" {
		return c.Keywords
	}
	return filepath.Join(c.Assets, "keywords.json")
}
