package stylesheet

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/themer/internal/registry"
	"github.com/roach88/themer/internal/style"
	"github.com/roach88/themer/internal/theme"
)

var night = theme.New("night")

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func stylesOf(t *testing.T, c *registry.Collection, id string) *style.Collection {
	t.Helper()
	require.NotNil(t, c)
	s, ok := c.StylesIfPresent(theme.MustIdentifier(id))
	require.True(t, ok, "identifier %q", id)
	return s
}

func value(t *testing.T, s *style.Style, attr theme.Attribute) any {
	t.Helper()
	require.NotNil(t, s)
	v, ok := s.Value(attr)
	require.True(t, ok, "attribute %q", attr)
	return v
}

func TestDecodeFile_YAML(t *testing.T) {
	sheet, err := DecodeFile("testdata/sheets/app/main.yaml")
	require.NoError(t, err)

	assert.Equal(t, []theme.Theme{theme.Default, night}, sheet.Themes())

	button := stylesOf(t, sheet.Collection(theme.Default), "Button")
	assert.Equal(t, "#ff0000", value(t, button.Base(), "color"))
	assert.Equal(t, 10, value(t, button.Base(), "size"))
	assert.False(t, button.Contains("states"))

	hi, ok := button.StyleFor(theme.Highlighted)
	require.True(t, ok)
	assert.Equal(t, "#00ff00", value(t, hi, "color"))

	sf, ok := button.StyleFor(theme.Compose(theme.Selected, theme.Focused))
	require.True(t, ok)
	assert.Equal(t, "#0000ff", value(t, sf, "color"))

	_, ok = button.StyleFor(theme.Selected)
	assert.False(t, ok)

	label := stylesOf(t, sheet.Collection(theme.Default), "Label")
	assert.Equal(t, map[string]any{"name": "Menlo", "size": 12}, value(t, label.Base(), "font"))
	assert.True(t, label.Contains("shadow"))
	assert.Nil(t, value(t, label.Base(), "shadow"))

	nightButton := stylesOf(t, sheet.Collection(night), "Button")
	assert.Equal(t, "#222222", value(t, nightButton.Base(), "color"))
}

func TestDecodeFile_CUE(t *testing.T) {
	sheet, err := DecodeFile("testdata/sheets/app/panel.cue")
	require.NoError(t, err)

	panel := stylesOf(t, sheet.Collection(theme.Default), "Panel")
	assert.Equal(t, "#fafafa", value(t, panel.Base(), "background"))
	assert.Equal(t, 4, value(t, panel.Base(), "padding"))
	assert.Equal(t, 0.5, value(t, panel.Base(), "opacity"))

	disabled, ok := panel.StyleFor(theme.Disabled)
	require.True(t, ok)
	assert.Equal(t, 0.25, value(t, disabled, "opacity"))
	assert.Nil(t, sheet.Collection(night))
}

func TestDecodeYAML_DefinesUnknownStates(t *testing.T) {
	doc := []byte(`
themes:
  default:
    Row:
      states:
        ":dragging":
          opacity: 0.5
`)
	sheet, err := DecodeYAML("", doc)
	require.NoError(t, err)

	dragging, ok := theme.LookupState(":dragging")
	require.True(t, ok)

	row := stylesOf(t, sheet.Collection(theme.Default), "Row")
	s, ok := row.StyleFor(dragging)
	require.True(t, ok)
	assert.Equal(t, 0.5, value(t, s, "opacity"))
}

func TestDecodeYAML_NormalizesNames(t *testing.T) {
	// "e\u0301" decomposed; NFC folds it into "\u00e9".
	doc := []byte("themes:\n  \"nuit\u0065\u0301\":\n    \"Caf\u0065\u0301\":\n      \"t\u0065\u0301l\": 1\n")

	sheet, err := DecodeYAML("", doc)
	require.NoError(t, err)

	c := sheet.Collection(theme.New("nuit\u00e9"))
	require.NotNil(t, c)
	s := stylesOf(t, c, "Caf\u00e9")
	assert.Equal(t, 1, value(t, s.Base(), "t\u00e9l"))
}

func TestDecodeYAML_Errors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"missing themes", "other: 1\n", "themes"},
		{"unknown top level", "themes: {}\nextra: 1\n", "extra"},
		{"themes not mapping", "themes: [1]\n", "themes"},
		{"identifier not mapping", "themes:\n  default:\n    Button: 3\n", "themes.default.Button"},
		{"states not mapping", "themes:\n  default:\n    Button:\n      states: 1\n", "themes.default.Button.states"},
		{"normal state", "themes:\n  default:\n    Button:\n      states:\n        \":normal\": {color: red}\n", `themes.default.Button.states[":normal"]`},
		{"bad state", "themes:\n  default:\n    Button:\n      states:\n        \"[:focused\": {color: red}\n", `themes.default.Button.states["[:focused"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeYAML("inline.yaml", []byte(tt.doc))
			require.Error(t, err)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.field, decodeErr.Field)
			assert.Equal(t, "inline.yaml", decodeErr.Path)
		})
	}
}

func TestDecodeYAML_DuplicateNormalizedKeys(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		field   string
		message string
	}{
		{
			"theme",
			"themes:\n  night: {}\n  \" night\": {}\n",
			"themes.night",
			"duplicate theme after normalization",
		},
		{
			"identifier",
			"themes:\n  default:\n    \"Caf\u00e9\": {a: 1}\n    \"Cafe\u0301\": {a: 2}\n",
			"themes.default.Caf\u00e9",
			"duplicate identifier after normalization",
		},
		{
			"attribute",
			"themes:\n  default:\n    Button:\n      color: red\n      \" color\": blue\n",
			"themes.default.Button.color",
			"duplicate attribute after normalization",
		},
		{
			"state",
			"themes:\n  default:\n    Button:\n      states:\n        \":highlighted:selected\": {a: 1}\n        \"[:highlighted:selected]\": {a: 2}\n",
			`themes.default.Button.states["[:highlighted:selected]"]`,
			"duplicate state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeYAML("inline.yaml", []byte(tt.doc))
			require.Error(t, err)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.field, decodeErr.Field)
			assert.Equal(t, tt.message, decodeErr.Message)
		})
	}
}

func TestDecodeYAML_Empty(t *testing.T) {
	_, err := DecodeYAML("empty.yaml", nil)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "empty document", decodeErr.Message)
}

func TestDecodeFile_InvalidState(t *testing.T) {
	_, err := DecodeFile("testdata/invalid/bad_state.yaml")
	require.Error(t, err)

	assert.True(t, errors.Is(err, theme.ErrInvalidStateName))
	assert.Contains(t, err.Error(), "testdata/invalid/bad_state.yaml")
}

func TestDecodeFile_CUESchemaViolation(t *testing.T) {
	_, err := DecodeFile("testdata/invalid/schema.cue")
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Contains(t, decodeErr.Message, "schema violation")
}

func TestDecodeFile_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := DecodeFile(path)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestDecodeError_Error(t *testing.T) {
	cause := errors.New("boom")
	err := &DecodeError{Path: "a.yaml", Field: "themes", Message: "bad", Err: cause}

	assert.Equal(t, "a.yaml: themes: bad: boom", err.Error())
	assert.Same(t, cause, errors.Unwrap(err))
	assert.Equal(t, "bad", (&DecodeError{Message: "bad"}).Error())
}

func TestFindFiles(t *testing.T) {
	files, err := FindFiles("testdata/sheets")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join("testdata", "sheets", "app", "main.yaml"),
		filepath.Join("testdata", "sheets", "app", "panel.cue"),
		filepath.Join("testdata", "sheets", "root.yml"),
	}, files)
}

func TestDirProvider_Load(t *testing.T) {
	p := NewDirProvider("testdata/sheets", WithLogger(discardLogger()))

	c, err := p.Load(theme.Default, registry.SheetKey{Bundle: "app", Name: "main"})
	require.NoError(t, err)
	button := stylesOf(t, c, "Button")
	assert.Equal(t, "#ff0000", value(t, button.Base(), "color"))

	c, err = p.Load(theme.Default, registry.SheetKey{Name: "root"})
	require.NoError(t, err)
	window := stylesOf(t, c, "Window")
	assert.Equal(t, "Main", value(t, window.Base(), "title"))

	c, err = p.Load(theme.Default, registry.SheetKey{Bundle: "app", Name: "panel"})
	require.NoError(t, err)
	stylesOf(t, c, "Panel")
}

func TestDirProvider_LoadReturnsCopies(t *testing.T) {
	p := NewDirProvider("testdata/sheets", WithLogger(discardLogger()))
	key := registry.SheetKey{Bundle: "app", Name: "main"}

	first, err := p.Load(theme.Default, key)
	require.NoError(t, err)
	stylesOf(t, first, "Button").Base().SetValue("#000000", "color")

	second, err := p.Load(theme.Default, key)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", value(t, stylesOf(t, second, "Button").Base(), "color"))
}

func TestDirProvider_Absent(t *testing.T) {
	p := NewDirProvider("testdata/sheets", WithLogger(discardLogger()))

	c, err := p.Load(theme.Default, registry.SheetKey{Bundle: "app", Name: "missing"})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = p.Load(theme.Default, registry.SheetKey{})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = p.Load(theme.New("sepia"), registry.SheetKey{Bundle: "app", Name: "main"})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestDirProvider_MemoisesSheets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.yaml")
	require.NoError(t, os.WriteFile(path, []byte("themes:\n  default:\n    A:\n      x: 1\n"), 0o644))

	p := NewDirProvider(dir, WithLogger(discardLogger()))
	key := registry.SheetKey{Name: "main"}

	first, err := p.Sheet(key)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	second, err := p.Sheet(key)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, path, second.Path())
}

func TestDirProvider_DecodeError(t *testing.T) {
	p := NewDirProvider("testdata/invalid", WithLogger(discardLogger()))

	_, err := p.Load(theme.Default, registry.SheetKey{Name: "bad_state"})
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestProviderFunc(t *testing.T) {
	want := registry.NewCollection(night)
	var p Provider = ProviderFunc(func(th theme.Theme, key registry.SheetKey) (*registry.Collection, error) {
		assert.Equal(t, night, th)
		assert.Equal(t, "x", key.Name)
		return want, nil
	})

	got, err := p.Load(night, registry.SheetKey{Name: "x"})
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestFromThemes(t *testing.T) {
	sheet, err := FromThemes("inline", map[string]any{
		"default": map[string]any{
			"Button": map[string]any{"color": "blue"},
		},
	})
	require.NoError(t, err)
	button := stylesOf(t, sheet.Collection(theme.Default), "Button")
	assert.Equal(t, "blue", value(t, button.Base(), "color"))

	empty, err := FromThemes("inline", nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Themes())
}
