package render

import (
	"fmt"

	"golang.org/x/image/font/opentype"

	"github.com/youruser/cardgen/internal/config"
	"github.com/youruser/cardgen/internal/datafile"
	imagepkg "github.com/youruser/cardgen/internal/image"
)

// Assets are the read-only inputs shared by every render: the verified
// template and the parsed fonts.
type Assets struct {
	Dir      string
	Template *imagepkg.Template
	Title    *opentype.Font
	Desc     *opentype.Font
	Cost     *opentype.Font
}

// LoadAssets loads the template and fonts named by cfg. Relative paths are
// resolved against cfg.Assets. A template checksum mismatch is an error.
func LoadAssets(cfg config.Config) (*Assets, error) {
	a := &Assets{Dir: cfg.Assets}

	tpl, err := imagepkg.LoadTemplate(a.Path(cfg.Template.Manifest))
	if err != nil {
		return nil, err
	}
	if err := tpl.Verify(cfg.Template.MD5); err != nil {
		return nil, err
	}
	a.Template = tpl

	fonts := []struct {
		dst **opentype.Font
		cfg config.FontConfig
		use string
	}{
		{&a.Title, cfg.Fonts.Title, "title"},
		{&a.Desc, cfg.Fonts.Desc, "description"},
		{&a.Cost, cfg.Fonts.Cost, "cost"},
	}
	for _, f := range fonts {
		path := f.cfg.Path
		if path != "" {
			path = a.Path(path)
		}
		*f.dst, err = imagepkg.LoadFont(path)
		if err != nil {
			return nil, fmt.Errorf("%s font: %w", f.use, err)
		}
	}
	return a, nil
}

// Path resolves p against the asset directory.
func (a *Assets) Path(p string) string {
	return datafile.JoinPath(a.Dir, p)
}
