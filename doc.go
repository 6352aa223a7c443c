/*
Command bitvm runs compiled micro:bit style images on a simulated device.

An image is a block of little-endian words: a header carrying the protocol
version and the size of the global table, then the entry code, action entry
headers and text literals. The runtime validates the header, allocates the
globals, and transfers control to the code linked after the header. Fibers
spawned by the program (background actions, forever loops and event handlers)
run on a cooperative scheduler over a virtual clock.

Code in this simulator is Go, linked against the entry points of an image; the
built-in demo image (see -demo and -write-demo) is linked this way.

Usage:

	bitvm [flags] IMAGE

Serial transmit goes to stdout, and serial receive reads stdin. Faults are
written to stderr as "Error: KIND [SUBCODE]", exiting with status 1.

Device configuration may be loaded from a TOML file with -config:

	duration = "2s"
	forever-interval = "20ms"
	trace = true

	[[press]]
	at = "150ms"
	source = "A"        # A, B, AB, P0, P1, or P2
	event = "click"     # down, up, click, long-click, hold, or double-click

Flags given on the command line override the file.
*/
package main
