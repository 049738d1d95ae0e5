package stylesheet

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/themer/internal/registry"
	"github.com/roach88/themer/internal/style"
	"github.com/roach88/themer/internal/theme"
)

const statesField = "states"

// Sheet is a decoded stylesheet: one registry collection per theme.
type Sheet struct {
	path   string
	themes map[theme.Theme]*registry.Collection
}

// Path returns the file the sheet was decoded from.
func (s *Sheet) Path() string {
	return s.path
}

// Themes returns the themes the sheet defines, sorted by name.
func (s *Sheet) Themes() []theme.Theme {
	out := make([]theme.Theme, 0, len(s.themes))
	for t := range s.themes {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b theme.Theme) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return out
}

// Collection returns the sheet's styles for t, or nil if the sheet does not
// define t. The result is shared; callers that take ownership must Clone it.
func (s *Sheet) Collection(t theme.Theme) *registry.Collection {
	return s.themes[t]
}

// FromThemes builds a sheet from an already decoded themes mapping, the
// value of a document's "themes" field.
func FromThemes(path string, themes map[string]any) (*Sheet, error) {
	if themes == nil {
		themes = map[string]any{}
	}
	return build(path, map[string]any{"themes": themes})
}

// build turns a generic document into a Sheet.
func build(path string, doc map[string]any) (*Sheet, error) {
	sheet := &Sheet{path: path, themes: make(map[theme.Theme]*registry.Collection)}

	raw, ok := doc["themes"]
	if !ok {
		return nil, &DecodeError{Path: path, Field: "themes", Message: "missing themes"}
	}
	themes, ok := raw.(map[string]any)
	if !ok {
		return nil, &DecodeError{Path: path, Field: "themes", Message: "must be a mapping"}
	}
	for _, key := range sortedKeys(doc) {
		if key != "themes" {
			return nil, &DecodeError{Path: path, Field: key, Message: "unknown top-level field"}
		}
	}

	for _, themeName := range sortedKeys(themes) {
		t, err := theme.ParseTheme(normalize(themeName))
		if err != nil {
			return nil, &DecodeError{Path: path, Field: "themes", Message: "invalid theme name", Err: err}
		}
		field := "themes." + themeName
		if _, dup := sheet.themes[t]; dup {
			return nil, &DecodeError{Path: path, Field: field, Message: "duplicate theme after normalization"}
		}
		entries, ok := themes[themeName].(map[string]any)
		if !ok {
			return nil, &DecodeError{Path: path, Field: field, Message: "must be a mapping"}
		}

		coll := registry.NewCollection(t)
		seen := make(map[theme.Identifier]bool, len(entries))
		for _, idName := range sortedKeys(entries) {
			id, err := theme.NewIdentifier(normalize(idName))
			if err != nil {
				return nil, &DecodeError{Path: path, Field: field, Message: "invalid identifier", Err: err}
			}
			if seen[id] {
				return nil, &DecodeError{Path: path, Field: field + "." + idName, Message: "duplicate identifier after normalization"}
			}
			seen[id] = true
			styles, err := buildStyles(path, field+"."+idName, entries[idName])
			if err != nil {
				return nil, err
			}
			coll.Set(id, styles)
		}
		sheet.themes[t] = coll
	}
	return sheet, nil
}

func buildStyles(path, field string, raw any) (*style.Collection, error) {
	attrs, ok := raw.(map[string]any)
	if !ok {
		return nil, &DecodeError{Path: path, Field: field, Message: "must be a mapping"}
	}

	out := style.NewCollection()
	for _, name := range sortedKeys(attrs) {
		if name == statesField {
			continue
		}
		if err := setAttribute(out.Base(), path, field, name, attrs[name]); err != nil {
			return nil, err
		}
	}

	rawStates, ok := attrs[statesField]
	if !ok {
		return out, nil
	}
	states, ok := rawStates.(map[string]any)
	if !ok {
		return nil, &DecodeError{Path: path, Field: field + "." + statesField, Message: "must be a mapping"}
	}
	for _, key := range sortedKeys(states) {
		stateField := fmt.Sprintf("%s.%s[%q]", field, statesField, key)
		state, err := theme.ParseStateDefining(strings.TrimSpace(key))
		if err != nil {
			return nil, &DecodeError{Path: path, Field: stateField, Message: "invalid state", Err: err}
		}
		if state.IsPassThrough() {
			return nil, &DecodeError{Path: path, Field: stateField, Message: "normal state styles belong in the base"}
		}
		if _, dup := out.StyleFor(state); dup {
			return nil, &DecodeError{Path: path, Field: stateField, Message: "duplicate state"}
		}
		stateAttrs, ok := states[key].(map[string]any)
		if !ok {
			return nil, &DecodeError{Path: path, Field: stateField, Message: "must be a mapping"}
		}
		sub := out.StyleOrCreate(state)
		for _, name := range sortedKeys(stateAttrs) {
			if err := setAttribute(sub, path, stateField, name, stateAttrs[name]); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func setAttribute(s *style.Style, path, field, name string, v any) error {
	attr := normalize(name)
	if attr == "" {
		return &DecodeError{Path: path, Field: field, Message: "empty attribute name"}
	}
	if s.Contains(theme.Attribute(attr)) {
		return &DecodeError{Path: path, Field: field + "." + name, Message: "duplicate attribute after normalization"}
	}
	// UpdateValue keeps an explicit nil.
	s.UpdateValue(v, theme.Attribute(attr))
	return nil
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
