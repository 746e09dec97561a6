package datafile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLookupLocalField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "card.json"), `{"name": "Light Attack", "cost": 1}`)

	doc, err := Load(filepath.Join(dir, "card.json"))
	require.NoError(t, err)

	name, ok, err := doc.String("name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Light Attack", name)

	var cost int
	ok, err = doc.Decode("cost", &cost)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, cost)

	_, ok, err = doc.Lookup("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupInheritsFromParentChain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base", "root.json"), `{"rarity": "paperback", "type": "melee"}`)
	writeFile(t, filepath.Join(dir, "base", "mid.json"), `{"parent": "root.json", "type": "ranged"}`)
	writeFile(t, filepath.Join(dir, "cards", "leaf.json"), `{"parent": "../base/mid.json", "name": "Leaf"}`)

	doc, err := Load(filepath.Join(dir, "cards", "leaf.json"))
	require.NoError(t, err)

	rarity, ok, err := doc.String("rarity")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "paperback", rarity)

	typ, _, err := doc.String("type")
	require.NoError(t, err)
	assert.Equal(t, "ranged", typ, "nearest ancestor wins")

	_, ok, err = doc.Lookup(ParentField)
	require.NoError(t, err)
	assert.False(t, ok, "parent is not exposed as a field")
}

func TestParentLoadedOnce(t *testing.T) {
	dir := t.TempDir()
	parentPath := filepath.Join(dir, "parent.json")
	writeFile(t, parentPath, `{"a": 1, "b": 2}`)
	writeFile(t, filepath.Join(dir, "child.json"), `{"parent": "parent.json"}`)

	doc, err := Load(filepath.Join(dir, "child.json"))
	require.NoError(t, err)

	_, ok, err := doc.Lookup("a")
	require.NoError(t, err)
	require.True(t, ok)
	first, err := doc.Parent()
	require.NoError(t, err)

	// Further lookups must not touch the disk again.
	require.NoError(t, os.Remove(parentPath))

	_, ok, err = doc.Lookup("b")
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = doc.Lookup("nope")
	require.NoError(t, err)
	assert.False(t, ok)

	second, err := doc.Parent()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestMissingParentIsAnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "child.json"), `{"parent": "gone.json"}`)

	doc, err := Load(filepath.Join(dir, "child.json"))
	require.NoError(t, err)

	_, _, err = doc.Lookup("anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.json")
}

func TestParentCycleIsAnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{"parent": "b.json", "name": "A"}`)
	writeFile(t, filepath.Join(dir, "b.json"), `{"parent": "sub/../a.json"}`)
	writeFile(t, filepath.Join(dir, "self.json"), `{"parent": "self.json"}`)

	doc, err := Load(filepath.Join(dir, "a.json"))
	require.NoError(t, err)

	_, _, err = doc.Lookup("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParentCycle))
	assert.Contains(t, err.Error(), filepath.Join(dir, "a.json")+" -> "+filepath.Join(dir, "b.json")+" -> "+filepath.Join(dir, "a.json"))

	// Local fields still resolve without touching the chain.
	name, ok, err := doc.String("name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "A", name)

	self, err := Load(filepath.Join(dir, "self.json"))
	require.NoError(t, err)
	_, err = self.Decode("anything", new(string))
	assert.True(t, errors.Is(err, ErrParentCycle))

	// A parsed document joins the chain through its parent.
	body, err := Parse([]byte(`{"parent": "a.json"}`), dir, FormatJSON)
	require.NoError(t, err)
	_, _, err = body.Lookup("missing")
	assert.True(t, errors.Is(err, ErrParentCycle))
}

func TestMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.json"), `{"name": `)

	_, err := Load(filepath.Join(dir, "bad.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestFilePathResolvesAgainstDefiningDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shared", "base.json"), `{"art": "art/default.png", "icon": {"image": {"path": "icons/x.png"}}}`)
	writeFile(t, filepath.Join(dir, "cards", "card.json"), `{"parent": "../shared/base.json", "local": "mine.png"}`)

	doc, err := Load(filepath.Join(dir, "cards", "card.json"))
	require.NoError(t, err)

	art, ok, err := doc.FilePath("art")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "shared", "art", "default.png"), art)

	icon, ok, err := doc.FilePath("icon", "image", "path")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "shared", "icons", "x.png"), icon)

	local, ok, err := doc.FilePath("local")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "cards", "mine.png"), local)

	_, ok, err = doc.FilePath("icon", "image", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilePathKeepsURLs(t *testing.T) {
	doc, err := Parse([]byte(`{"art": "https://example.com/a.png"}`), "/data", FormatJSON)
	require.NoError(t, err)

	art, ok, err := doc.FilePath("art")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a.png", art)
}

func TestYAMLDocumentInheritsFromJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.json"), `{"rarity": "limited"}`)
	writeFile(t, filepath.Join(dir, "card.yaml"), "parent: base.json\nname: Evade\ndice:\n  - type: evade\n    range: 3-5\n")

	doc, err := Load(filepath.Join(dir, "card.yaml"))
	require.NoError(t, err)

	var dice []map[string]string
	ok, err := doc.Decode("dice", &dice)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []map[string]string{{"type": "evade", "range": "3-5"}}, dice)

	rarity, _, err := doc.String("rarity")
	require.NoError(t, err)
	assert.Equal(t, "limited", rarity)
}

func TestDecodeNullIsAbsent(t *testing.T) {
	doc, err := Parse([]byte(`{"effect": null}`), ".", FormatJSON)
	require.NoError(t, err)

	var s string
	ok, err := doc.Decode("effect", &s)
	require.NoError(t, err)
	assert.False(t, ok)
}
