package coerce

import (
	"strconv"
	"strings"
)

// RichText kinds.
const (
	TextPlain = "plain"
	TextHTML  = "html"
)

// RichText is styled text content.
type RichText struct {
	Kind    string
	Content string
}

// String quotes the content, prefixed with "html" for HTML text.
func (t RichText) String() string {
	if t.Kind == TextHTML {
		return "html " + strconv.Quote(t.Content)
	}
	return strconv.Quote(t.Content)
}

// RichText reads rich text.
//
// A string is plain text. A map {content} is plain text and a map
// {type: "html", content} is HTML. Unknown types are unparsable.
func (c *Coercer) RichText(v any) (RichText, bool) {
	return c.richTextValue(v, "")
}

func (c *Coercer) richTextValue(v any, attr string) (RichText, bool) {
	switch t := v.(type) {
	case nil:
		return RichText{}, false
	case RichText:
		return t, true
	case string:
		return RichText{Kind: TextPlain, Content: t}, true
	case map[string]any:
		content, ok := t["content"].(string)
		if !ok {
			break
		}
		kind, hasKind := t["type"].(string)
		if !hasKind {
			return RichText{Kind: TextPlain, Content: content}, true
		}
		if kind == TextHTML {
			return RichText{Kind: TextHTML, Content: content}, true
		}
	}
	c.unparsable("rich_text", v, attr, "none")
	return RichText{}, false
}

// TextAttributes are the character attributes of a text run. Nil fields are
// unset.
type TextAttributes struct {
	Font       *Font
	Color      *Color
	Background *Color
}

// String lists the set attributes as key=value pairs.
func (a TextAttributes) String() string {
	var parts []string
	if a.Font != nil {
		parts = append(parts, "font="+a.Font.String())
	}
	if a.Color != nil {
		parts = append(parts, "color="+a.Color.Hex())
	}
	if a.Background != nil {
		parts = append(parts, "background="+a.Background.Hex())
	}
	return strings.Join(parts, ", ")
}

// TextAttributes reads a map {font, color, backgroundColor}; each entry
// accepts every form its own reader accepts. At least one entry must parse.
func (c *Coercer) TextAttributes(v any) (TextAttributes, bool) {
	return c.textAttributesValue(v, "")
}

func (c *Coercer) textAttributesValue(v any, attr string) (TextAttributes, bool) {
	switch t := v.(type) {
	case nil:
		return TextAttributes{}, false
	case TextAttributes:
		return t, true
	case map[string]any:
		var out TextAttributes
		if raw, ok := t["font"]; ok {
			if f, ok := c.fontValue(raw, attr); ok {
				out.Font = &f
			}
		}
		if col, ok := c.colorValue(t["color"], attr); ok {
			out.Color = &col
		}
		if bg, ok := c.colorValue(t["backgroundColor"], attr); ok {
			out.Background = &bg
		}
		if out.Font != nil || out.Color != nil || out.Background != nil {
			return out, true
		}
	}
	c.unparsable("text_attributes", v, attr, "none")
	return TextAttributes{}, false
}
