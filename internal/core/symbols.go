package core

import "fmt"

// symbols indexes names by a dense id, starting from 1.
type symbols struct {
	strings []string
	symbols map[string]uint
}

func (sym symbols) string(id uint) string {
	if i := int(id) - 1; i >= 0 && i < len(sym.strings) {
		return sym.strings[i]
	}
	return ""
}

func (sym symbols) symbol(s string) uint {
	return sym.symbols[s]
}

// define adds a new name, which must not already be defined.
func (sym *symbols) define(s string) (id uint) {
	if _, defined := sym.symbols[s]; defined {
		panic(fmt.Sprintf("symbol %q already defined", s))
	}
	if sym.symbols == nil {
		sym.symbols = make(map[string]uint)
	}
	id = uint(len(sym.strings)) + 1
	sym.strings = append(sym.strings, s)
	sym.symbols[s] = id
	return id
}
