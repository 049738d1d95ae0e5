// Package coerce turns raw style values into typed values.
//
// Style storage is untyped: values arrive from code, YAML or CUE as strings,
// numbers, booleans, lists and maps. The Coercer reads them as colors, fonts,
// images, rich text and scalars. Coercion never fails hard: a value of the
// wrong shape yields the nearest permissive default (0, false, the value's
// textual form, the system font) and a logged diagnostic.
package coerce

import (
	"fmt"
	"log/slog"
	"math"
)

// Coercer converts raw values, logging every fallback.
type Coercer struct {
	logger *slog.Logger
}

// New creates a coercer. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Coercer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coercer{logger: logger}
}

// unparsable records a fallback. attr is empty for value-level calls.
func (c *Coercer) unparsable(kind string, v any, attr string, fallback string) {
	args := []any{
		"kind", kind,
		"value", fmt.Sprintf("%v", v),
		"type", fmt.Sprintf("%T", v),
		"fallback", fallback,
	}
	if attr != "" {
		args = append(args, "attribute", attr)
	}
	c.logger.Warn("unparsable style value", args...)
}

// Int reads an integer. Floats with an integral value are accepted.
// Anything else returns 0.
func (c *Coercer) Int(v any) int {
	return c.intValue(v, "")
}

func (c *Coercer) intValue(v any, attr string) int {
	if v == nil {
		return 0
	}
	if n, ok := asInt64(v); ok {
		return int(n)
	}
	if f, ok := asFloat64(v); ok && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	c.unparsable("int", v, attr, "0")
	return 0
}

// Float64 reads any number. Anything else returns 0.
func (c *Coercer) Float64(v any) float64 {
	return c.floatValue(v, "")
}

func (c *Coercer) floatValue(v any, attr string) float64 {
	if v == nil {
		return 0
	}
	if f, ok := asFloat64(v); ok {
		return f
	}
	if n, ok := asInt64(v); ok {
		return float64(n)
	}
	c.unparsable("float", v, attr, "0")
	return 0
}

// Bool reads a boolean. Anything else returns false.
func (c *Coercer) Bool(v any) bool {
	return c.boolValue(v, "")
}

func (c *Coercer) boolValue(v any, attr string) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	c.unparsable("bool", v, attr, "false")
	return false
}

// String reads a string. Other values return their textual form.
// A nil value returns ("", false).
func (c *Coercer) String(v any) (string, bool) {
	return c.stringValue(v, "")
}

func (c *Coercer) stringValue(v any, attr string) (string, bool) {
	if v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	s := fmt.Sprintf("%v", v)
	c.unparsable("string", v, attr, "textual form")
	return s, true
}

// Strings reads a list of strings. A list of other scalars is converted
// element-wise; any other value becomes a one-element list of its textual
// form. A nil value returns (nil, false).
func (c *Coercer) Strings(v any) ([]string, bool) {
	return c.stringsValue(v, "")
}

func (c *Coercer) stringsValue(v any, attr string) ([]string, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case []string:
		return t, true
	case []any:
		out := make([]string, len(t))
		for i, e := range t {
			if s, ok := e.(string); ok {
				out[i] = s
				continue
			}
			out[i] = fmt.Sprintf("%v", e)
		}
		return out, true
	}
	c.unparsable("strings", v, attr, "one-element textual form")
	return []string{fmt.Sprintf("%v", v)}, true
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// asNumber reads any numeric value as float64.
func asNumber(v any) (float64, bool) {
	if f, ok := asFloat64(v); ok {
		return f, true
	}
	if n, ok := asInt64(v); ok {
		return float64(n), true
	}
	return 0, false
}
