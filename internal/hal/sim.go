package hal

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

// Sim is a simulated device: events are delivered by Emit, serial traffic
// goes through the given reader and writer, and display output is recorded.
type Sim struct {
	log       *zap.Logger
	in        *bufio.Reader
	out       writeFlusher
	listeners map[EventKey]func()
	touch     map[int]bool
	touched   map[int]bool

	// Display records every text shown or scrolled.
	Display []string

	// Images records every image shown, scrolled or animated.
	Images []Bitmap

	// Screen holds the pixels currently shown.
	Screen Bitmap

	// Panics records every panic code shown.
	Panics []int

	// Resets counts device resets.
	Resets int
}

// SimOption configures a Sim.
type SimOption interface{ apply(sim *Sim) }

type simLoggerOption struct{ *zap.Logger }
type serialInOption struct{ io.Reader }
type serialOutOption struct{ io.Writer }

// WithLogger sets the logger display and panic output goes to.
func WithLogger(log *zap.Logger) SimOption { return simLoggerOption{log} }

// WithSerialIn sets the serial receive stream.
func WithSerialIn(r io.Reader) SimOption { return serialInOption{r} }

// WithSerialOut sets the serial transmit stream.
func WithSerialOut(w io.Writer) SimOption { return serialOutOption{w} }

func (o simLoggerOption) apply(sim *Sim) {
	if o.Logger != nil {
		sim.log = o.Logger.Named("hal")
	}
}
func (o serialInOption) apply(sim *Sim)  { sim.in = newLineReader(o.Reader) }
func (o serialOutOption) apply(sim *Sim) { sim.out = newWriteFlusher(o.Writer) }

// NewSim creates a simulated device.
func NewSim(opts ...SimOption) *Sim {
	sim := &Sim{
		log:       zap.NewNop(),
		in:        newLineReader(nil),
		out:       newWriteFlusher(nil),
		listeners: make(map[EventKey]func()),
		touch:     make(map[int]bool),
		touched:   make(map[int]bool),
		Screen:    NewBitmap(ScreenWidth, ScreenHeight),
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(sim)
		}
	}
	return sim
}

// Listen implements Device.
func (sim *Sim) Listen(key EventKey, handler func()) {
	sim.listeners[key] = handler
}

// Ignore implements Device.
func (sim *Sim) Ignore(key EventKey) {
	delete(sim.listeners, key)
}

// Listening reports whether a handler is installed for key.
func (sim *Sim) Listening(key EventKey) bool {
	_, ok := sim.listeners[key]
	return ok
}

// Emit delivers an event, reporting whether any handler received it.
func (sim *Sim) Emit(key EventKey) bool {
	handler := sim.listeners[key]
	if handler == nil {
		return false
	}
	sim.log.Debug("event", zap.Int("source", key.Source), zap.Int("event", key.Event))
	handler()
	return true
}

// Click emits a click event from a button or touch pin.
func (sim *Sim) Click(source int) bool {
	return sim.Emit(EventKey{source, ButtonEvtClick})
}

// SetTouched sets the touch state of a pin.
func (sim *Sim) SetTouched(pin int, touched bool) { sim.touched[pin] = touched }

// TouchMode reports whether a pin was switched to touch detection.
func (sim *Sim) TouchMode(pin int) bool { return sim.touch[pin] }

// Touch implements Device.
func (sim *Sim) Touch(pin int) bool {
	sim.touch[pin] = true
	return sim.touched[pin]
}

// SerialSend implements Device.
func (sim *Sim) SerialSend(p []byte) error {
	if _, err := sim.out.Write(p); err != nil {
		return err
	}
	return sim.out.Flush()
}

// SerialReadLine implements Device.
func (sim *Sim) SerialReadLine() ([]byte, error) {
	return readLine(sim.in)
}

// ScrollText implements Device.
func (sim *Sim) ScrollText(p []byte, delay time.Duration) {
	sim.Display = append(sim.Display, string(p))
	sim.log.Info("scroll", zap.ByteString("text", p), zap.Duration("delay", delay))
}

// ShowLetter implements Device.
func (sim *Sim) ShowLetter(c byte) {
	sim.Display = append(sim.Display, string([]byte{c}))
	sim.log.Info("show", zap.String("letter", string([]byte{c})))
}

// ShowImage implements Device.
func (sim *Sim) ShowImage(bm Bitmap, x int) {
	sim.Images = append(sim.Images, bm.Clone())
	sim.Screen = bm.Window(x)
	sim.log.Info("show", zap.Stringer("image", bm), zap.Int("x", x))
}

// ScrollImage implements Device; the image scrolls off screen, leaving it
// dark.
func (sim *Sim) ScrollImage(bm Bitmap, stride int, delay time.Duration) {
	sim.Images = append(sim.Images, bm.Clone())
	sim.Screen = NewBitmap(ScreenWidth, ScreenHeight)
	sim.log.Info("scroll", zap.Stringer("image", bm), zap.Int("stride", stride), zap.Duration("delay", delay))
}

// Animate implements Device; the last frame stays on screen.
func (sim *Sim) Animate(bm Bitmap, delay time.Duration) {
	sim.Images = append(sim.Images, bm.Clone())
	if frames := (bm.Width + ScreenWidth - 1) / ScreenWidth; frames > 0 {
		sim.Screen = bm.Window((frames - 1) * ScreenWidth)
	}
	sim.log.Info("animate", zap.Stringer("image", bm), zap.Duration("delay", delay))
}

// ScreenShot implements Device.
func (sim *Sim) ScreenShot() Bitmap { return sim.Screen.Clone() }

// Panic implements Device.
func (sim *Sim) Panic(code int) {
	sim.Panics = append(sim.Panics, code)
	sim.log.Error("panic", zap.Int("code", code))
}

// Reset implements Device.
func (sim *Sim) Reset() {
	sim.Resets++
	sim.listeners = make(map[EventKey]func())
	sim.Screen = NewBitmap(ScreenWidth, ScreenHeight)
	sim.log.Info("reset")
}

// Close implements Device.
func (sim *Sim) Close() error {
	if err := sim.out.Flush(); err != nil {
		return fmt.Errorf("serial flush: %w", err)
	}
	return nil
}
