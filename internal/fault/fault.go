// Package fault implements the runtime's fail-fast error model: every
// violated invariant halts the device with an error kind and subcode. Halting
// is a panic carrying a Fault, recovered into an ordinary error at API
// boundaries.
package fault

import (
	"errors"
	"fmt"
)

// Kind is the device error number reported on the diagnostic channel.
type Kind int

// Error kinds, numbered as the device reports them.
const (
	ErrInvalidBinaryHeader Kind = 5
	ErrRefDeleted          Kind = 7
	ErrOutOfBounds         Kind = 8
	ErrSize                Kind = 9
	ErrAssertion           Kind = 10
	ErrPanic               Kind = 11
)

var kindNames = map[Kind]string{
	ErrInvalidBinaryHeader: "invalid binary header",
	ErrRefDeleted:          "reference deleted",
	ErrOutOfBounds:         "out of bounds",
	ErrSize:                "size",
	ErrAssertion:           "assertion failed",
	ErrPanic:               "panic",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("error#%d", int(k))
}

// Fault is a fatal runtime violation.
type Fault struct {
	Kind    Kind
	Subcode int
	Message string
}

func (f Fault) Error() string {
	if f.Message != "" {
		return fmt.Sprintf("Error: %d [%d] %v: %v", int(f.Kind), f.Subcode, f.Kind, f.Message)
	}
	return fmt.Sprintf("Error: %d [%d] %v", int(f.Kind), f.Subcode, f.Kind)
}

// Is matches any Fault of the same kind and subcode, so callers may write
// errors.Is(err, fault.Fault{Kind: fault.ErrSize, Subcode: 2}).
func (f Fault) Is(target error) bool {
	t, ok := target.(Fault)
	return ok && t.Kind == f.Kind && t.Subcode == f.Subcode
}

// Halt stops the current fiber by panicking with a Fault.
func Halt(kind Kind, subcode int) {
	panic(Fault{Kind: kind, Subcode: subcode})
}

// Haltf is like Halt, with a message.
func Haltf(kind Kind, subcode int, mess string, args ...interface{}) {
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	panic(Fault{Kind: kind, Subcode: subcode, Message: mess})
}

// Check halts unless cond holds.
func Check(cond bool, kind Kind, subcode int) {
	if !cond {
		Halt(kind, subcode)
	}
}

// As extracts any Fault from err.
func As(err error) (Fault, bool) {
	var f Fault
	if errors.As(err, &f) {
		return f, true
	}
	return Fault{}, false
}

// KindOf returns the kind of any Fault within err, or 0.
func KindOf(err error) Kind {
	f, _ := As(err)
	return f.Kind
}
