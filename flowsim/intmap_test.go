package flowsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntMapReusesFreedSlots(t *testing.T) {
	m := NewIntMap[string]()

	i0 := m.Insert("a")
	i1 := m.Insert("b")
	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)

	_, ok := m.Remove(i0)
	assert.True(t, ok)

	i2 := m.Insert("c")
	assert.Equal(t, i0, i2, "freed slot should be reused before growing")

	v, ok := m.Get(i1)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = m.Get(i0)
	assert.True(t, ok)
}

func TestIntMapIterSkipsEmptySlots(t *testing.T) {
	m := NewIntMap[int]()
	m.Insert(10)
	i1 := m.Insert(20)
	m.Insert(30)
	m.Remove(i1)

	seen := map[int]int{}
	m.Iter(func(idx int, v *int) { seen[idx] = *v })

	assert.Equal(t, 2, len(seen))
	assert.Equal(t, 10, seen[0])
	assert.Equal(t, 30, seen[2])
}
