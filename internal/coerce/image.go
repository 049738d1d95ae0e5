package coerce

import (
	"fmt"
	"strings"
	"time"
)

// Image names an image asset. More than one name with a positive Duration
// describes an animation.
type Image struct {
	Names    []string
	Duration time.Duration
}

// Animated reports whether the image is an animation.
func (i Image) Animated() bool {
	return len(i.Names) > 1 && i.Duration > 0
}

// String lists the asset names and marks animations with their duration.
func (i Image) String() string {
	s := strings.Join(i.Names, ", ")
	if i.Animated() {
		s += fmt.Sprintf(" (animated %s)", i.Duration)
	}
	return s
}

// Image reads an image.
//
// A string is an asset name. A map {name, duration} describes an animation:
// name is a string or a list of strings and duration is in seconds.
func (c *Coercer) Image(v any) (Image, bool) {
	return c.imageValue(v, "")
}

func (c *Coercer) imageValue(v any, attr string) (Image, bool) {
	switch t := v.(type) {
	case nil:
		return Image{}, false
	case Image:
		return t, true
	case string:
		return Image{Names: []string{t}}, true
	case map[string]any:
		names, ok := c.namesValue(t["name"])
		seconds, hasDuration := asNumber(t["duration"])
		if ok && hasDuration {
			return Image{
				Names:    names,
				Duration: time.Duration(seconds * float64(time.Second)),
			}, true
		}
	}
	c.unparsable("image", v, attr, "none")
	return Image{}, false
}

// Images reads a list of image names from a string or a list of strings.
func (c *Coercer) Images(v any) ([]string, bool) {
	return c.imagesValue(v, "")
}

func (c *Coercer) imagesValue(v any, attr string) ([]string, bool) {
	names, ok := c.namesValue(v)
	if !ok && v != nil {
		c.unparsable("images", v, attr, "none")
	}
	return names, ok
}

func (c *Coercer) namesValue(v any) ([]string, bool) {
	switch t := v.(type) {
	case string:
		return []string{t}, true
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				continue
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
