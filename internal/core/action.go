package core

import (
	"github.com/jcorbin/gobitvm/internal/fault"
	"github.com/jcorbin/gobitvm/internal/image"
)

// ActionKind discriminates the shapes an action value may take.
type ActionKind uint8

// Action kinds.
const (
	ActionNone ActionKind = iota
	ActionDirect
	ActionClosure
)

func (k ActionKind) String() string {
	switch k {
	case ActionDirect:
		return "direct"
	case ActionClosure:
		return "closure"
	default:
		return "none"
	}
}

// Action is the decoded form of an action word: either the image address of
// an entry header (Direct), or a heap Closure.
type Action struct {
	Kind    ActionKind
	Word    Word
	Addr    uint32
	Closure *Closure
}

// DecodeAction decodes an action word by its RefTag discriminant.
func (rt *Runtime) DecodeAction(a Word) Action {
	switch {
	case a == Null:
		return Action{}
	case IsRef(a):
		clo, ok := rt.Deref(a).(*Closure)
		if !ok {
			fault.Haltf(fault.ErrInvalidBinaryHeader, 6, "%v is not a closure", a)
		}
		return Action{Kind: ActionClosure, Word: a, Closure: clo}
	default:
		return Action{Kind: ActionDirect, Word: a, Addr: uint32(a)}
	}
}

// NewAction creates an action for the entry header at off. Actions
// capturing nothing are the header address itself; otherwise a closure of
// totalLen zeroed slots is allocated, the first refLen of which own
// references.
func (rt *Runtime) NewAction(refLen, totalLen int, off uint32) Word {
	fault.Check(0 <= refLen && refLen <= totalLen, fault.ErrSize, 1)
	fault.Check(refLen <= totalLen && totalLen <= 255, fault.ErrSize, 2)
	if sub := rt.prog.Image.CheckEntry(off); sub != 0 {
		fault.Haltf(fault.ErrInvalidBinaryHeader, sub, "no action entry @%#x", off)
	}
	if totalLen == 0 {
		return Word(off)
	}
	return rt.Alloc(&Closure{
		slots: makeSlots(refLen, totalLen),
		entry: image.EntryPoint(off),
	})
}

// StoreClosure stores a captured value into slot i of a closure, owning it
// if i is a reference slot. It returns the closure, so stores may be chained
// while building one.
func (rt *Runtime) StoreClosure(a Word, i int, v Word) Word {
	clo := deref[*Closure](&rt.Heap, a)
	if i < clo.refLen {
		clo.storeRef(&rt.Heap, i, v)
	} else {
		clo.fields[i] = v
	}
	return a
}

// RunAction invokes an action on the current fiber, returning when it
// completes. Running the null action does nothing.
func (rt *Runtime) RunAction(a Word) {
	act := rt.DecodeAction(a)
	switch act.Kind {
	case ActionClosure:
		rt.call(act.Closure.entry, act.Closure.fields)
	case ActionDirect:
		if magic, ok := rt.prog.Image.Uint16(act.Addr); !ok || magic != image.EntryMagic {
			fault.Haltf(fault.ErrInvalidBinaryHeader, 4, "no action entry @%#x", act.Addr)
		}
		rt.call(image.EntryPoint(act.Addr), nil)
	}
}
