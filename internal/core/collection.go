package core

import (
	"bytes"

	"github.com/jcorbin/gobitvm/internal/fault"
)

// CollectionFlags are fixed when a collection is created.
type CollectionFlags uint32

const (
	// OwnsElements marks elements as owning references.
	OwnsElements CollectionFlags = 1 << iota

	// TextElements marks elements as text, compared by content.
	TextElements
)

// Collection is a growable indexable sequence.
type Collection struct {
	flags CollectionFlags
	data  []Word
}

// Flags returns the collection's flags.
func (c *Collection) Flags() CollectionFlags { return c.flags }

func (c *Collection) owns() bool { return c.flags&OwnsElements != 0 }

func (c *Collection) inRange(i int) bool { return 0 <= i && i < len(c.data) }

func (c *Collection) destroy(h *Heap) {
	data := c.data
	c.data = nil
	if c.flags&OwnsElements != 0 {
		for _, w := range data {
			h.Release(w)
		}
	}
}

// NewCollection allocates an empty collection.
func (rt *Runtime) NewCollection(flags CollectionFlags) Word {
	return rt.Alloc(&Collection{flags: flags})
}

func (rt *Runtime) collection(c Word) *Collection {
	return deref[*Collection](&rt.Heap, c)
}

// Count returns the number of elements.
func (rt *Runtime) Count(c Word) int {
	return len(rt.collection(c).data)
}

// Add appends x, retaining it if the collection owns its elements.
func (rt *Runtime) Add(c Word, x Word) {
	col := rt.collection(c)
	if col.owns() {
		rt.Retain(x)
	}
	col.data = append(col.data, x)
}

// At returns the element at i, as a new reference if the collection owns its
// elements. Halts if i is out of range.
func (rt *Runtime) At(c Word, i int) Word {
	col := rt.collection(c)
	if !col.inRange(i) {
		fault.Haltf(fault.ErrOutOfBounds, 0, "index %v of %v", i, len(col.data))
	}
	x := col.data[i]
	if col.owns() {
		rt.Retain(x)
	}
	return x
}

// SetAt replaces the element at i; out of range indices are ignored.
func (rt *Runtime) SetAt(c Word, i int, x Word) {
	col := rt.collection(c)
	if !col.inRange(i) {
		return
	}
	old := col.data[i]
	col.data[i] = x
	if col.owns() {
		rt.Retain(x)
		rt.Release(old)
	}
}

// RemoveAt removes the element at i, shifting later elements down; out of
// range indices are ignored.
func (rt *Runtime) RemoveAt(c Word, i int) {
	col := rt.collection(c)
	if !col.inRange(i) {
		return
	}
	old := col.data[i]
	n := len(col.data) - 1
	copy(col.data[i:], col.data[i+1:])
	col.data[n] = Null
	col.data = col.data[:n]
	if col.owns() {
		rt.Release(old)
	}
}

// IndexOf returns the first index at or after start whose element equals x,
// or -1. Text collections compare content, others compare words.
func (rt *Runtime) IndexOf(c Word, x Word, start int) int {
	col := rt.collection(c)
	if !col.inRange(start) {
		return -1
	}
	if col.flags&TextElements != 0 {
		xb := rt.TextBytes(x)
		for i := start; i < len(col.data); i++ {
			if bytes.Equal(xb, rt.TextBytes(col.data[i])) {
				return i
			}
		}
		return -1
	}
	for i := start; i < len(col.data); i++ {
		if col.data[i] == x {
			return i
		}
	}
	return -1
}

// Remove removes the first element equal to x, reporting whether one was.
func (rt *Runtime) Remove(c Word, x Word) bool {
	if i := rt.IndexOf(c, x, 0); i >= 0 {
		rt.RemoveAt(c, i)
		return true
	}
	return false
}
