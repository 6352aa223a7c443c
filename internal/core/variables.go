package core

import (
	"github.com/jcorbin/gobitvm/internal/fault"
)

func (rt *Runtime) checkGlobal(i int) uint {
	if !(0 <= i && i < rt.numGlobals) {
		fault.Haltf(fault.ErrOutOfBounds, 7, "global %v of %v", i, rt.numGlobals)
	}
	return uint(i)
}

func (rt *Runtime) loadGlobal(i int) Word {
	w, err := rt.globals.Load(rt.checkGlobal(i))
	if err != nil {
		fault.Haltf(fault.ErrOutOfBounds, 7, "%v", err)
	}
	return Word(w)
}

func (rt *Runtime) storeGlobal(i int, v Word) {
	if err := rt.globals.Stor(rt.checkGlobal(i), uint32(v)); err != nil {
		fault.Haltf(fault.ErrOutOfBounds, 7, "%v", err)
	}
}

// LoadGlobal reads a raw global.
func (rt *Runtime) LoadGlobal(i int) Word { return rt.loadGlobal(i) }

// LoadGlobalRef reads a reference global, returning a new reference to it.
func (rt *Runtime) LoadGlobalRef(i int) Word { return rt.Retain(rt.loadGlobal(i)) }

// StoreGlobal writes a raw global. The index comes last, as compiled code
// pushes it last.
func (rt *Runtime) StoreGlobal(v Word, i int) { rt.storeGlobal(i, v) }

// StoreGlobalRef writes a reference global: v is retained and the previous
// occupant released.
func (rt *Runtime) StoreGlobalRef(v Word, i int) {
	old := rt.loadGlobal(i)
	rt.Retain(v)
	rt.storeGlobal(i, v)
	rt.Release(old)
}

// NewCell boxes a captured local holding raw values.
func (rt *Runtime) NewCell() Word { return rt.Alloc(&Cell{}) }

// NewRefCell boxes a captured local holding references.
func (rt *Runtime) NewRefCell() Word { return rt.Alloc(&RefCell{}) }

// LoadCell reads a raw cell.
func (rt *Runtime) LoadCell(c Word) Word { return deref[*Cell](&rt.Heap, c).v }

// StoreCell writes a raw cell.
func (rt *Runtime) StoreCell(c Word, v Word) { deref[*Cell](&rt.Heap, c).v = v }

// LoadCellRef reads a reference cell, returning a new reference to it.
func (rt *Runtime) LoadCellRef(c Word) Word {
	return rt.Retain(deref[*RefCell](&rt.Heap, c).v)
}

// StoreCellRef writes a reference cell: v is retained and the previous
// occupant released.
func (rt *Runtime) StoreCellRef(c Word, v Word) {
	cell := deref[*RefCell](&rt.Heap, c)
	rt.Retain(v)
	old := cell.v
	cell.v = v
	rt.Release(old)
}
