package core

import (
	"github.com/jcorbin/gobitvm/internal/fault"
)

// NewText allocates a heap text holding a copy of b.
func (rt *Runtime) NewText(b []byte) Word {
	if len(b) == 0 {
		return rt.emptyText
	}
	return rt.Alloc(&Text{data: append([]byte(nil), b...)})
}

// TextBytes returns the content of a heap text or of a text literal in the
// image. The null text is empty.
func (rt *Runtime) TextBytes(s Word) []byte {
	switch {
	case s == Null:
		return nil
	case IsRef(s):
		return deref[*Text](&rt.Heap, s).data
	}
	b, ok := rt.prog.Image.Text(uint32(s))
	if !ok {
		fault.Haltf(fault.ErrInvalidBinaryHeader, 7, "no text literal @%#x", uint32(s))
	}
	return b
}

// TextString is like TextBytes, returning a string.
func (rt *Runtime) TextString(s Word) string { return string(rt.TextBytes(s)) }
