package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptional_States(t *testing.T) {
	a := Absent[string]()
	assert.False(t, a.Supplied())
	assert.False(t, a.HasValue())
	assert.Nil(t, a.Ptr())
	assert.Equal(t, "def", a.OrElse("def"))

	n := Null[string]()
	assert.True(t, n.Supplied())
	assert.True(t, n.IsNull())
	assert.Nil(t, n.Ptr())

	s := Some("milk")
	v, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, "milk", v)
	assert.Equal(t, "milk", *s.Ptr())
}

func TestOptional_Apply(t *testing.T) {
	orig := "old"

	dst := &orig
	Absent[string]().Apply(&dst)
	assert.Equal(t, "old", *dst)

	Some("new").Apply(&dst)
	assert.Equal(t, "new", *dst)
	assert.Equal(t, "old", orig, "Apply must not write through the previous pointer")

	Null[string]().Apply(&dst)
	assert.Nil(t, dst)
}
