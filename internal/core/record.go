package core

// NewRecord allocates a zeroed record of totalLen fields, the first refLen
// of which own references.
func (rt *Runtime) NewRecord(refLen, totalLen int) Word {
	return rt.Alloc(&Record{makeSlots(refLen, totalLen)})
}

// LoadField reads a raw field.
func (rt *Runtime) LoadField(r Word, i int) Word {
	return deref[*Record](&rt.Heap, r).fields[i]
}

// LoadFieldRef reads a reference field, returning a new reference to it.
func (rt *Runtime) LoadFieldRef(r Word, i int) Word {
	return rt.Retain(deref[*Record](&rt.Heap, r).fields[i])
}

// StoreField writes a raw field.
func (rt *Runtime) StoreField(r Word, i int, v Word) {
	deref[*Record](&rt.Heap, r).fields[i] = v
}

// StoreFieldRef writes a reference field: v is retained and the previous
// occupant released.
func (rt *Runtime) StoreFieldRef(r Word, i int, v Word) {
	deref[*Record](&rt.Heap, r).storeRef(&rt.Heap, i, v)
}
