package coerce

import "fmt"

// SystemFontSize is the size used when a font value names no size.
const SystemFontSize = 14.0

// Font describes a font. An empty Name means the system font.
type Font struct {
	Name   string
	Size   float64
	Weight float64
}

// SystemFont returns the system font at the default size.
func SystemFont() Font {
	return Font{Size: SystemFontSize}
}

// IsSystem reports whether f uses the system font.
func (f Font) IsSystem() bool {
	return f.Name == ""
}

func (f Font) String() string {
	name := f.Name
	if f.IsSystem() {
		name = "system"
	}
	s := fmt.Sprintf("%s %gpt", name, f.Size)
	if f.Weight != 0 {
		s += fmt.Sprintf(" weight %g", f.Weight)
	}
	return s
}

// Font reads a font.
//
// A string is a font name at the system size; a number is a system font
// size; a map may hold name and size, or size and weight. A value of any
// other shape returns the system font.
func (c *Coercer) Font(v any) (Font, bool) {
	return c.fontValue(v, "")
}

func (c *Coercer) fontValue(v any, attr string) (Font, bool) {
	if v == nil {
		return Font{}, false
	}
	switch t := v.(type) {
	case Font:
		return t, true
	case string:
		return Font{Name: t, Size: SystemFontSize}, true
	case map[string]any:
		size, hasSize := asNumber(t["size"])
		if name, ok := t["name"].(string); ok {
			if !hasSize {
				size = SystemFontSize
			}
			return Font{Name: name, Size: size}, true
		}
		if hasSize {
			weight, _ := asNumber(t["weight"])
			return Font{Size: size, Weight: weight}, true
		}
	default:
		if size, ok := asNumber(v); ok {
			return Font{Size: size}, true
		}
	}
	c.unparsable("font", v, attr, "system font")
	return SystemFont(), true
}
