// Package datafile loads JSON and YAML data documents that may inherit
// fields from a parent document.
//
// A document names its parent with a top-level "parent" field holding a path
// relative to the document's own directory. Fields missing locally are looked
// up in the parent chain, and the answer is cached on the child.
package datafile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// ParentField is the reserved field naming a document's parent.
const ParentField = "parent"

// ErrParentCycle is returned when a parent chain leads back to a document
// already in it.
var ErrParentCycle = errors.New("parent cycle")

// Format selects the decoder used for a document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks a Format from a file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Field is a raw value together with the directory of the document that
// defined it. Relative paths stored in a field resolve against Dir.
type Field struct {
	Raw json.RawMessage
	Dir string
}

// Get evaluates a sub-path (e.g. "image", "path") inside the field's value.
func (f Field) Get(subpath ...string) gjson.Result {
	if len(subpath) == 0 {
		return gjson.ParseBytes(f.Raw)
	}
	return gjson.GetBytes(f.Raw, strings.Join(subpath, "."))
}

type lookup struct {
	field Field
	ok    bool
}

// Document is one loaded data file.
type Document struct {
	path   string
	dir    string
	fields map[string]json.RawMessage

	parentRef string
	parent    *Document
	// chain holds the absolute paths from the first loaded child down to
	// this document.
	chain []string
	// resolved holds fields answered by the parent chain, misses included.
	resolved map[string]lookup
}

// Load reads the document at path.
func Load(path string) (*Document, error) {
	return load(path, nil)
}

func load(path string, children []string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if slices.Contains(children, abs) {
		return nil, fmt.Errorf("%w: %s", ErrParentCycle, strings.Join(append(slices.Clone(children), abs), " -> "))
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(b, filepath.Dir(path), FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	doc.path = path
	doc.chain = append(slices.Clone(children), abs)
	return doc, nil
}

// Parse decodes data as a document living in dir.
func Parse(data []byte, dir string, format Format) (*Document, error) {
	fields := map[string]json.RawMessage{}
	switch format {
	case FormatYAML:
		var m map[string]any
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		for k, v := range m {
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = raw
		}
	default:
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
	}

	doc := &Document{
		dir:      dir,
		fields:   fields,
		resolved: map[string]lookup{},
	}
	if raw, ok := fields[ParentField]; ok {
		if err := json.Unmarshal(raw, &doc.parentRef); err != nil {
			return nil, fmt.Errorf("parent must be a string path: %w", err)
		}
		delete(fields, ParentField)
	}
	return doc, nil
}

// Path returns the file the document was loaded from, empty for parsed data.
func (d *Document) Path() string { return d.path }

// Parent loads the parent document on first use. It returns nil when the
// document has no parent.
func (d *Document) Parent() (*Document, error) {
	if d.parent != nil || d.parentRef == "" {
		return d.parent, nil
	}
	parent, err := load(JoinPath(d.dir, d.parentRef), d.chain)
	if err != nil {
		return nil, fmt.Errorf("loading parent: %w", err)
	}
	d.parent = parent
	return parent, nil
}

// Lookup finds name locally or in the parent chain.
func (d *Document) Lookup(name string) (Field, bool, error) {
	if raw, ok := d.fields[name]; ok {
		return Field{Raw: raw, Dir: d.dir}, true, nil
	}
	if hit, ok := d.resolved[name]; ok {
		return hit.field, hit.ok, nil
	}

	parent, err := d.Parent()
	if err != nil {
		return Field{}, false, err
	}
	var hit lookup
	if parent != nil {
		hit.field, hit.ok, err = parent.Lookup(name)
		if err != nil {
			return Field{}, false, err
		}
	}
	d.resolved[name] = hit
	return hit.field, hit.ok, nil
}

// Decode unmarshals field name into v. It reports false when the field is
// absent or JSON null.
func (d *Document) Decode(name string, v any) (bool, error) {
	f, ok, err := d.Lookup(name)
	if err != nil || !ok {
		return false, err
	}
	if string(f.Raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(f.Raw, v); err != nil {
		return false, fmt.Errorf("field %q: %w", name, err)
	}
	return true, nil
}

// String returns a string field.
func (d *Document) String(name string) (string, bool, error) {
	var s string
	ok, err := d.Decode(name, &s)
	return s, ok, err
}

// FilePath returns a path-valued field (optionally nested under subpath),
// joined onto the directory of the document that defined the field. An
// inherited path therefore resolves next to the parent file, not the child.
func (d *Document) FilePath(name string, subpath ...string) (string, bool, error) {
	f, ok, err := d.Lookup(name)
	if err != nil || !ok {
		return "", false, err
	}
	res := f.Get(subpath...)
	if !res.Exists() || res.Type == gjson.Null {
		return "", false, nil
	}
	if res.Type != gjson.String {
		return "", false, fmt.Errorf("field %q: path must be a string", strings.Join(append([]string{name}, subpath...), "."))
	}
	return JoinPath(f.Dir, res.String()), true, nil
}

// JoinPath resolves p against dir unless p is absolute or a URL.
func JoinPath(dir, p string) string {
	if filepath.IsAbs(p) || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return filepath.Join(dir, p)
}
