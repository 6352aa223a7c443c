package core

import (
	"fmt"

	"github.com/jcorbin/gobitvm/internal/fault"
	"github.com/jcorbin/gobitvm/internal/hal"
)

// slots is a fixed array of value slots whose first refLen entries own
// references.
type slots struct {
	refLen int
	fields []Word
}

func makeSlots(refLen, totalLen int) slots {
	fault.Check(0 <= refLen && refLen <= totalLen, fault.ErrSize, 1)
	fault.Check(refLen <= totalLen && totalLen <= 255, fault.ErrSize, 2)
	return slots{refLen: refLen, fields: make([]Word, totalLen)}
}

// storeRef retains v before releasing the old occupant, so storing the
// object a slot already holds never drops it to zero.
func (s *slots) storeRef(h *Heap, i int, v Word) {
	h.Retain(v)
	old := s.fields[i]
	s.fields[i] = v
	h.Release(old)
}

func (s *slots) release(h *Heap) {
	for i, w := range s.fields[:s.refLen] {
		s.fields[i] = Null
		h.Release(w)
	}
}

// Record is a fixed layout struct object.
type Record struct{ slots }

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.fields) }

// RefLen returns the number of leading owning fields.
func (r *Record) RefLen() int { return r.refLen }

func (r *Record) destroy(h *Heap) { r.release(h) }

// Closure is a heap action capturing values.
type Closure struct {
	slots
	entry uint32
}

// Entry returns the callable address the closure runs.
func (c *Closure) Entry() uint32 { return c.entry }

// Fields returns the captured slots.
func (c *Closure) Fields() []Word { return c.fields }

func (c *Closure) destroy(h *Heap) { c.release(h) }

// Cell boxes a captured local holding a raw value.
type Cell struct{ v Word }

func (c *Cell) destroy(h *Heap) {}

// RefCell boxes a captured local holding an owning reference.
type RefCell struct{ v Word }

func (c *RefCell) destroy(h *Heap) {
	w := c.v
	c.v = Null
	h.Release(w)
}

// Text is an immutable heap byte string.
type Text struct{ data []byte }

// Bytes returns the text content.
func (t *Text) Bytes() []byte { return t.data }

func (t *Text) destroy(h *Heap) {}

// Image is a heap bitmap. Read-only images share their pixels with a literal
// in the program image.
type Image struct {
	hal.Bitmap
	readOnly bool
}

// ReadOnly reports whether the image ignores pixel writes.
func (img *Image) ReadOnly() bool { return img.readOnly }

func (img *Image) destroy(h *Heap) {}

func typeName(obj Object) string {
	switch obj.(type) {
	case *Record:
		return "record"
	case *Collection:
		return "collection"
	case *Closure:
		return "closure"
	case *Cell, *RefCell:
		return "cell"
	case *Text:
		return "text"
	case *Image:
		return "image"
	default:
		return fmt.Sprintf("%T", obj)
	}
}

// deref halts unless w is a live object of type T.
func deref[T Object](h *Heap, w Word) T {
	obj, ok := h.Deref(w).(T)
	if !ok {
		var zero T
		fault.Haltf(fault.ErrRefDeleted, 3, "%v is a %v, not a %v", w, typeName(h.Deref(w)), typeName(zero))
	}
	return obj
}
