/*
Package core is the native runtime that compiled programs execute against.

Every value crosses the runtime boundary as a 32-bit Word. A Word is either a
raw scalar, a static address inside the read-only image (entry headers, text
literals), or a handle to a reference-counted heap object. Handles carry an
explicit discriminant, the RefTag bit, so the runtime never has to guess the
shape of the memory a Word points at; the zero Word is the null reference.

Ownership is manual: a slot declared as owning retains what is stored into it
and releases what it held, and every heap object releases its owning slots
when its count reaches zero. Owning structures that form a cycle are never
freed.

Every violated invariant is fatal: the runtime reports an error kind and
subcode on the diagnostic channel and halts (see package fault).
*/
package core
