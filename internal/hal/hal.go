// Package hal declares the hardware abstraction layer the runtime calls out
// to, and provides a simulated device.
package hal

import "time"

// Event sources.
const (
	ButtonA  = 1
	ButtonB  = 2
	ButtonAB = 26
	PinP0    = 7
	PinP1    = 8
	PinP2    = 9
)

// Button events.
const (
	ButtonEvtDown        = 1
	ButtonEvtUp          = 2
	ButtonEvtClick       = 3
	ButtonEvtLongClick   = 4
	ButtonEvtHold        = 5
	ButtonEvtDoubleClick = 6
)

// EventKey identifies an event subscription.
type EventKey struct {
	Source int
	Event  int
}

// Device is the hardware abstraction layer.
type Device interface {
	// Listen installs the handler for an event, replacing any other.
	Listen(key EventKey, handler func())

	// Ignore removes any handler for an event.
	Ignore(key EventKey)

	// Touch switches a pin to capacitive touch detection, and reports
	// whether it is touched.
	Touch(pin int) bool

	SerialSend(p []byte) error
	SerialReadLine() ([]byte, error)

	ScrollText(p []byte, delay time.Duration)
	ShowLetter(c byte)

	// ShowImage shows the screen sized window of bm starting at column x.
	ShowImage(bm Bitmap, x int)

	// ScrollImage scrolls bm across the screen, moving stride columns
	// every delay.
	ScrollImage(bm Bitmap, stride int, delay time.Duration)

	// Animate shows bm as a strip of screen wide frames, one every delay.
	Animate(bm Bitmap, delay time.Duration)

	// ScreenShot returns the pixels currently shown.
	ScreenShot() Bitmap

	// Panic shows a panic code; the runtime halts afterwards.
	Panic(code int)

	// Reset reboots the device; the runtime stops afterwards.
	Reset()

	// Close flushes any pending output.
	Close() error
}
