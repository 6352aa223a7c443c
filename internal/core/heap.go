package core

import (
	"github.com/jcorbin/gobitvm/internal/fault"
)

// Object is a reference-counted heap entity. Destroy releases any owning
// references the object holds; it is called exactly once, when the last
// owner releases it.
type Object interface {
	destroy(h *Heap)
}

// Heap is the handle table of live objects.
type Heap struct {
	objs []heapEntry
	free []uint32
	live int
}

type heapEntry struct {
	obj    Object
	refs   int
	pinned bool
}

// Alloc adds obj to the heap with a count of one, returning its handle.
func (h *Heap) Alloc(obj Object) Word {
	var i uint32
	if n := len(h.free); n > 0 {
		i, h.free = h.free[n-1], h.free[:n-1]
	} else {
		i = uint32(len(h.objs))
		h.objs = append(h.objs, heapEntry{})
	}
	h.objs[i] = heapEntry{obj: obj, refs: 1}
	h.live++
	return RefTag | Word(i+1)
}

// pin allocates an object that is never freed; retain and release are no-ops
// on it, like literals living in flash.
func (h *Heap) pin(obj Object) Word {
	w := h.Alloc(obj)
	h.entry(w, 0).pinned = true
	return w
}

func (h *Heap) entry(w Word, subcode int) *heapEntry {
	i := int(w&^RefTag) - 1
	if i < 0 || i >= len(h.objs) || h.objs[i].obj == nil {
		fault.Haltf(fault.ErrRefDeleted, subcode, "%v is not a live object", w)
	}
	return &h.objs[i]
}

// Retain increments the count of a heap object and returns the same word.
// Null and static words are returned unchanged.
func (h *Heap) Retain(w Word) Word {
	if IsRef(w) {
		if e := h.entry(w, 1); !e.pinned {
			e.refs++
		}
	}
	return w
}

// Release decrements the count of a heap object, destroying and freeing it
// once the count reaches zero. Null and static words are ignored.
func (h *Heap) Release(w Word) {
	if !IsRef(w) {
		return
	}
	e := h.entry(w, 1)
	if e.pinned {
		return
	}
	if e.refs--; e.refs > 0 {
		return
	}
	obj := e.obj
	*e = heapEntry{}
	h.live--
	obj.destroy(h)
	h.free = append(h.free, uint32(w&^RefTag)-1)
}

// Deref returns the live object behind w, halting if there is none.
func (h *Heap) Deref(w Word) Object {
	if !IsRef(w) {
		fault.Haltf(fault.ErrRefDeleted, 2, "%v is not a heap reference", w)
	}
	return h.entry(w, 2).obj
}

// RefCount returns the count of a live heap object, or 0 if w does not
// refer to one.
func (h *Heap) RefCount(w Word) int {
	if !IsRef(w) {
		return 0
	}
	i := int(w&^RefTag) - 1
	if i < 0 || i >= len(h.objs) || h.objs[i].obj == nil {
		return 0
	}
	return h.objs[i].refs
}

// Live returns the number of live, unpinned, heap objects.
func (h *Heap) Live() int {
	n := h.live
	for _, e := range h.objs {
		if e.pinned {
			n--
		}
	}
	return n
}

// Each calls f with every live unpinned object.
func (h *Heap) Each(f func(w Word, obj Object, refs int)) {
	for i, e := range h.objs {
		if e.obj != nil && !e.pinned {
			f(RefTag|Word(i+1), e.obj, e.refs)
		}
	}
}
