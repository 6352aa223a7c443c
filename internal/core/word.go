package core

import "fmt"

// Word is a 32-bit value slot.
type Word uint32

// RefTag marks a Word as a heap handle.
const RefTag Word = 1 << 31

// Null is the canonical "no object" value.
const Null Word = 0

// IsNull reports whether w is the null reference.
func IsNull(w Word) bool { return w == Null }

// IsRef reports whether w is a heap handle. Only meaningful for words read
// from owning slots; raw scalar slots may hold any bit pattern.
func IsRef(w Word) bool { return w&RefTag != 0 }

// Int returns a scalar word as a signed integer.
func (w Word) Int() int { return int(int32(w)) }

// FromInt returns the scalar word for n.
func FromInt(n int) Word { return Word(uint32(int32(n))) }

// FromBool returns the scalar word for b.
func FromBool(b bool) Word {
	if b {
		return 1
	}
	return 0
}

func (w Word) String() string {
	switch {
	case w == Null:
		return "null"
	case IsRef(w):
		return fmt.Sprintf("ref#%d", uint32(w&^RefTag))
	default:
		return fmt.Sprintf("%#x", uint32(w))
	}
}
