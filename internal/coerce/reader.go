package coerce

import (
	"github.com/roach88/themer/internal/style"
	"github.com/roach88/themer/internal/theme"
)

// Reader reads typed attribute values from one style.
//
// An absent attribute (or a nil style) yields the zero value without a
// diagnostic; only values of the wrong shape are logged.
type Reader struct {
	c *Coercer
	s *style.Style
}

// For returns a reader over s.
func (c *Coercer) For(s *style.Style) Reader {
	return Reader{c: c, s: s}
}

// Attributes returns the style's attributes, sorted.
func (r Reader) Attributes() []theme.Attribute {
	if r.s == nil {
		return nil
	}
	return r.s.Attributes()
}

func (r Reader) value(attr theme.Attribute) any {
	if r.s == nil {
		return nil
	}
	v, _ := r.s.Value(attr)
	return v
}

// Int reads attr as an integer.
func (r Reader) Int(attr theme.Attribute) int {
	return r.c.intValue(r.value(attr), attr.String())
}

// Float64 reads attr as a number.
func (r Reader) Float64(attr theme.Attribute) float64 {
	return r.c.floatValue(r.value(attr), attr.String())
}

// Bool reads attr as a boolean.
func (r Reader) Bool(attr theme.Attribute) bool {
	return r.c.boolValue(r.value(attr), attr.String())
}

// String reads attr as a string.
func (r Reader) String(attr theme.Attribute) (string, bool) {
	return r.c.stringValue(r.value(attr), attr.String())
}

// Strings reads attr as a list of strings.
func (r Reader) Strings(attr theme.Attribute) ([]string, bool) {
	return r.c.stringsValue(r.value(attr), attr.String())
}

// Color reads attr as a color.
func (r Reader) Color(attr theme.Attribute) (Color, bool) {
	return r.c.colorValue(r.value(attr), attr.String())
}

// Font reads attr as a font.
func (r Reader) Font(attr theme.Attribute) (Font, bool) {
	return r.c.fontValue(r.value(attr), attr.String())
}

// Image reads attr as an image.
func (r Reader) Image(attr theme.Attribute) (Image, bool) {
	return r.c.imageValue(r.value(attr), attr.String())
}

// Images reads attr as a list of image names.
func (r Reader) Images(attr theme.Attribute) ([]string, bool) {
	return r.c.imagesValue(r.value(attr), attr.String())
}

// RichText reads attr as rich text.
func (r Reader) RichText(attr theme.Attribute) (RichText, bool) {
	return r.c.richTextValue(r.value(attr), attr.String())
}

// TextAttributes reads attr as text attributes.
func (r Reader) TextAttributes(attr theme.Attribute) (TextAttributes, bool) {
	return r.c.textAttributesValue(r.value(attr), attr.String())
}
