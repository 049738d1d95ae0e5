package coerce

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color with alpha. Channels are in [0, 1].
type Color struct {
	colorful.Color
	Alpha float64
}

// RGBA builds a color from 8-bit channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{
		Color: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255},
		Alpha: float64(a) / 255,
	}
}

// Hex renders the color as #rrggbb, or #rrggbbaa when it is not opaque.
func (c Color) Hex() string {
	hex := c.Color.Clamped().Hex()
	if c.Alpha >= 1 {
		return hex
	}
	return fmt.Sprintf("%s%02x", hex, uint8(c.Alpha*255+0.5))
}

// Terminal returns the color for terminal rendering. Alpha is dropped.
func (c Color) Terminal() lipgloss.Color {
	return lipgloss.Color(c.Color.Clamped().Hex())
}

// Color reads a color.
//
// Supported forms: "#RGB", "#RRGGBB", "#RRGGBBAA" (the leading '#' is
// optional) and integers laid out as 0xRRGGBBAA. A Color value is returned
// as is. Anything else returns (Color{}, false).
func (c *Coercer) Color(v any) (Color, bool) {
	return c.colorValue(v, "")
}

func (c *Coercer) colorValue(v any, attr string) (Color, bool) {
	if v == nil {
		return Color{}, false
	}
	switch t := v.(type) {
	case Color:
		return t, true
	case string:
		if col, err := ParseColor(t); err == nil {
			return col, true
		}
	default:
		if n, ok := asInt64(v); ok && n >= 0 && n <= 0xFFFFFFFF {
			return colorFromRGBA(uint32(n)), true
		}
	}
	c.unparsable("color", v, attr, "none")
	return Color{}, false
}

// ParseColor parses a hex color string.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	hex := strings.TrimPrefix(s, "#")

	switch len(hex) {
	case 3, 6:
		col, err := colorful.Hex("#" + hex)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		return Color{Color: col, Alpha: 1}, nil
	case 8:
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		return colorFromRGBA(uint32(n)), nil
	default:
		return Color{}, fmt.Errorf("parse color %q: want #RGB, #RRGGBB or #RRGGBBAA", s)
	}
}

func colorFromRGBA(n uint32) Color {
	return RGBA(uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n))
}
