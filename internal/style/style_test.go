package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/themer/internal/theme"
)

const (
	color theme.Attribute = "color"
	size  theme.Attribute = "size"
	font  theme.Attribute = "font"
)

// recordingOwner captures change notifications.
type recordingOwner struct {
	kinds []ChangeKind
}

func (o *recordingOwner) StyleChanged(kind ChangeKind) {
	o.kinds = append(o.kinds, kind)
}

func TestStyleValueAbsentVersusNil(t *testing.T) {
	s := NewStyle()

	_, ok := s.Value(color)
	assert.False(t, ok)

	s.UpdateValue(nil, color)
	v, ok := s.Value(color)
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.True(t, s.Contains(color))
}

func TestStyleSetValueNilRemoves(t *testing.T) {
	s := NewStyle().Setting("red", color)
	require.True(t, s.Contains(color))

	s.SetValue(nil, color)
	assert.False(t, s.Contains(color))
	assert.Equal(t, 0, s.Len())
}

func TestStyleUpdateValueReturnsOld(t *testing.T) {
	s := NewStyle()

	old, existed := s.UpdateValue("red", color)
	assert.Nil(t, old)
	assert.False(t, existed)

	old, existed = s.UpdateValue("blue", color)
	assert.Equal(t, "red", old)
	assert.True(t, existed)
}

func TestStyleRemoveValue(t *testing.T) {
	s := NewStyle().Setting(10, size)

	v, ok := s.RemoveValue(size)
	assert.True(t, ok)
	assert.Equal(t, 10, v)

	_, ok = s.RemoveValue(size)
	assert.False(t, ok)
}

func TestStyleAttributesSorted(t *testing.T) {
	s := NewStyle().Setting(1, size).Setting("red", color).Updating(nil, font)
	assert.Equal(t, []theme.Attribute{color, font, size}, s.Attributes())

	var seen []theme.Attribute
	for attr := range s.All() {
		seen = append(seen, attr)
	}
	assert.Equal(t, s.Attributes(), seen)
}

func TestStyleMutationsNotifyOwner(t *testing.T) {
	owner := &recordingOwner{}
	c := NewCollection()
	c.SetOwner(owner)

	c.SetValue("red", color)
	c.UpdateValue(nil, size)
	c.RemoveValue(size)
	c.RemoveValue(size) // absent: no notification

	assert.Equal(t, []ChangeKind{ChangeBase, ChangeBase, ChangeBase}, owner.kinds)
}

func TestStyleCloneDropsOwner(t *testing.T) {
	owner := &recordingOwner{}
	c := NewCollection()
	c.SetOwner(owner)
	c.SetValue("red", color)
	owner.kinds = nil

	cp := c.Base().Clone()
	assert.Nil(t, cp.Owner())

	cp.SetValue("blue", color)
	assert.Empty(t, owner.kinds)

	v, _ := c.Value(color)
	assert.Equal(t, "red", v)
}

func TestValuesIsCopy(t *testing.T) {
	s := NewStyleFrom(map[theme.Attribute]any{color: "red"})
	vals := s.Values()
	vals[color] = "blue"

	v, _ := s.Value(color)
	assert.Equal(t, "red", v)
}
