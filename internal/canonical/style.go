package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/themer/internal/style"
)

// DomainCollection prefixes collection fingerprints. The version suffix
// allows the encoding to change without colliding with old fingerprints.
const DomainCollection = "themer/collection/v1"

// StyleObject converts a style into a generic object of its attributes.
// A nil style yields nil.
func StyleObject(s *style.Style) map[string]any {
	if s == nil {
		return nil
	}
	out := make(map[string]any, s.Len())
	for attr, v := range s.All() {
		out[attr.String()] = v
	}
	return out
}

// CollectionObject converts a collection into
//
//	{"attributes": {...}, "states": {"<state key>": {...}}}
//
// "states" is omitted when the collection has no state styles. A nil
// collection yields nil.
func CollectionObject(c *style.Collection) map[string]any {
	if c == nil {
		return nil
	}
	out := map[string]any{
		"attributes": StyleObject(c.Base()),
	}
	if c.StateCount() == 0 {
		return out
	}
	states := make(map[string]any, c.StateCount())
	for _, st := range c.States() {
		sub, _ := c.StyleFor(st)
		states[string(st.Key())] = StyleObject(sub)
	}
	out["states"] = states
	return out
}

// MarshalCollection encodes a collection as canonical JSON. A nil
// collection encodes as null.
func MarshalCollection(c *style.Collection) ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	return Marshal(CollectionObject(c))
}

// Fingerprint returns a content hash of a collection:
// SHA256(DomainCollection + 0x00 + canonical JSON), hex-encoded.
// Equal collections have equal fingerprints regardless of insertion order.
func Fingerprint(c *style.Collection) (string, error) {
	data, err := MarshalCollection(c)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainCollection, data), nil
}

func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
