package coerce

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/themer/internal/theme"
)

// Kind is the typed reading an attribute gets when it is displayed.
type Kind string

const (
	KindColor          Kind = "color"
	KindFont           Kind = "font"
	KindImage          Kind = "image"
	KindImages         Kind = "images"
	KindRichText       Kind = "rich_text"
	KindTextAttributes Kind = "text_attributes"
	KindValue          Kind = "value"
)

// KindOf picks a reading from the attribute name, following the usual
// naming of appearance attributes: "textColor" and "background" are colors,
// "titleFont" is a font, "backgroundImage" is an image, "attributedTitle" is
// rich text and "titleTextAttributes" holds text attributes. Matching is
// case-insensitive. Other names are plain values.
func KindOf(attr theme.Attribute) Kind {
	n := strings.ToLower(attr.String())
	switch {
	case strings.HasSuffix(n, "attributes"):
		return KindTextAttributes
	case strings.HasSuffix(n, "color"), n == "background", n == "foreground", n == "tint":
		return KindColor
	case strings.Contains(n, "font"):
		return KindFont
	case strings.HasSuffix(n, "images"):
		return KindImages
	case strings.Contains(n, "image"):
		return KindImage
	case strings.HasPrefix(n, "attributed"), strings.HasSuffix(n, "richtext"):
		return KindRichText
	}
	return KindValue
}

// Description is the display form of one attribute.
type Description struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`

	// Swatch is the color to preview next to Text, if any.
	Swatch *Color `json:"-"`
}

// Describe reads attr with the reader for its Kind and renders the result.
// Values the reader cannot parse are logged and shown in their raw form.
// An absent attribute returns false.
func (r Reader) Describe(attr theme.Attribute) (Description, bool) {
	if r.s == nil || !r.s.Contains(attr) {
		return Description{}, false
	}
	kind := KindOf(attr)
	v := r.value(attr)
	if v == nil {
		return Description{Kind: kind, Text: "null"}, true
	}

	d := Description{Kind: kind}
	switch kind {
	case KindColor:
		if col, ok := r.Color(attr); ok {
			d.Text, d.Swatch = col.Hex(), &col
			return d, true
		}
	case KindFont:
		f, _ := r.Font(attr)
		d.Text = f.String()
		return d, true
	case KindImage:
		if img, ok := r.Image(attr); ok {
			d.Text = img.String()
			return d, true
		}
	case KindImages:
		if names, ok := r.Images(attr); ok {
			d.Text = strings.Join(names, ", ")
			return d, true
		}
	case KindRichText:
		if rt, ok := r.RichText(attr); ok {
			d.Text = rt.String()
			return d, true
		}
	case KindTextAttributes:
		if ta, ok := r.TextAttributes(attr); ok {
			d.Text, d.Swatch = ta.String(), ta.Color
			return d, true
		}
	default:
		return r.describeValue(attr, v), true
	}

	d.Text = fmt.Sprintf("%v (unparsable %s)", v, kind)
	return d, true
}

func (r Reader) describeValue(attr theme.Attribute, v any) Description {
	d := Description{Kind: KindValue}
	switch v.(type) {
	case bool:
		d.Text = strconv.FormatBool(r.Bool(attr))
	case string:
		s, _ := r.String(attr)
		d.Text = s
		// Untyped strings still get a preview when they look like colors.
		if col, err := ParseColor(s); err == nil {
			d.Swatch = &col
		}
	case []string, []any:
		list, _ := r.Strings(attr)
		d.Text = "[" + strings.Join(list, ", ") + "]"
	default:
		if _, ok := asNumber(v); ok {
			d.Text = strconv.FormatFloat(r.Float64(attr), 'g', -1, 64)
			break
		}
		d.Text = fmt.Sprintf("%v", v)
	}
	return d
}
