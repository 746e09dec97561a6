package imagepkg

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// Rect is a pixel box inside the template.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Layer is one image in the template stack. It is drawn only when every
// When selector matches the card's attributes.
type Layer struct {
	Name string            `json:"name"`
	Path string            `json:"path"`
	X    int               `json:"x"`
	Y    int               `json:"y"`
	When map[string]string `json:"when"`

	img image.Image
}

// Template is a layered card template described by a JSON manifest.
// Layers are listed bottom to top; card art goes below all of them.
type Template struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Art    Rect    `json:"art"`
	Layers []Layer `json:"layers"`

	path     string
	checksum string
}

// ChecksumError reports a template whose contents differ from the pinned sum.
type ChecksumError struct {
	Path string
	Want string
	Got  string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("MD5 sum for %s did not match expected (%s!=%s), wrong template supplied", e.Path, e.Got, e.Want)
}

// LoadTemplate reads the manifest and every layer image it references.
func LoadTemplate(path string) (*Template, error) {
	manifest, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	var tpl Template
	if err := json.Unmarshal(manifest, &tpl); err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", path, err)
	}
	if tpl.Width <= 0 || tpl.Height <= 0 {
		return nil, fmt.Errorf("template %s: invalid size %dx%d", path, tpl.Width, tpl.Height)
	}

	sum := md5.New()
	sum.Write(manifest)
	dir := filepath.Dir(path)
	for i := range tpl.Layers {
		l := &tpl.Layers[i]
		b, err := os.ReadFile(filepath.Join(dir, l.Path))
		if err != nil {
			return nil, fmt.Errorf("template layer %q: %w", l.Name, err)
		}
		sum.Write(b)
		l.img, err = imaging.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("template layer %q: decoding %s: %w", l.Name, l.Path, err)
		}
		l.When = normalizeSelectors(l.When)
	}
	tpl.path = path
	tpl.checksum = hex.EncodeToString(sum.Sum(nil))
	return &tpl, nil
}

// Checksum is the MD5 of the manifest followed by each layer file.
func (t *Template) Checksum() string { return t.checksum }

// Verify compares the checksum against want. An empty want always passes.
func (t *Template) Verify(want string) error {
	if want == "" || strings.EqualFold(want, t.checksum) {
		return nil
	}
	return &ChecksumError{Path: t.path, Want: want, Got: t.checksum}
}

// Attributes are the card properties layer selectors match against.
type Attributes map[string]string

// Set stores a normalized value.
func (a Attributes) Set(key, value string) {
	a[key] = Normalize(value)
}

// Normalize lower-cases v and maps spaces to underscores.
func Normalize(v string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), " ", "_")
}

func normalizeSelectors(when map[string]string) map[string]string {
	if len(when) == 0 {
		return nil
	}
	out := make(map[string]string, len(when))
	for k, v := range when {
		out[k] = Normalize(v)
	}
	return out
}

func (l *Layer) visible(attrs Attributes) bool {
	for k, v := range l.When {
		if attrs[k] != v {
			return false
		}
	}
	return true
}

// check makes sure every attribute a layer selects on has at least one
// layer matching the card's value.
func (t *Template) check(attrs Attributes) error {
	referenced := map[string]bool{}
	matched := map[string]bool{}
	for _, l := range t.Layers {
		for k, v := range l.When {
			referenced[k] = true
			if attrs[k] == v {
				matched[k] = true
			}
		}
	}
	keys := make([]string, 0, len(referenced))
	for k := range referenced {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, ok := attrs[k]
		if ok && !matched[k] {
			return fmt.Errorf("no such page %s: %s", k, v)
		}
	}
	return nil
}
