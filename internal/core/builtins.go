package core

import (
	"bytes"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jcorbin/gobitvm/internal/fault"
	"github.com/jcorbin/gobitvm/internal/hal"
)

// Text operations borrow their arguments; any text they return is a new
// reference owned by the caller.

// EmptyText returns the empty text.
func (rt *Runtime) EmptyText() Word { return rt.emptyText }

// TextLiteral returns the word for a text literal at off in the image.
func (rt *Runtime) TextLiteral(off uint32) Word { return Word(off) }

// Concat returns the concatenation of two texts.
func (rt *Runtime) Concat(a, b Word) Word {
	ab, bb := rt.TextBytes(a), rt.TextBytes(b)
	buf := make([]byte, 0, len(ab)+len(bb))
	buf = append(buf, ab...)
	buf = append(buf, bb...)
	return rt.NewText(buf)
}

// Substring returns up to n bytes of s starting at i; it is empty when i is
// out of range or n is not positive.
func (rt *Runtime) Substring(s Word, i, n int) Word {
	b := rt.TextBytes(s)
	if n <= 0 || i < 0 || i >= len(b) {
		return rt.emptyText
	}
	if rest := len(b) - i; n > rest {
		n = rest
	}
	return rt.NewText(b[i : i+n])
}

// TextEquals compares two texts by content.
func (rt *Runtime) TextEquals(a, b Word) bool {
	return bytes.Equal(rt.TextBytes(a), rt.TextBytes(b))
}

// TextCount returns the length of a text.
func (rt *Runtime) TextCount(s Word) int { return len(rt.TextBytes(s)) }

// CodeAt returns the byte at i, or 0 when i is out of range.
func (rt *Runtime) CodeAt(s Word, i int) int {
	if b := rt.TextBytes(s); 0 <= i && i < len(b) {
		return int(b[i])
	}
	return 0
}

// TextAt returns the single byte text at i, or the empty text.
func (rt *Runtime) TextAt(s Word, i int) Word {
	return rt.Substring(s, i, 1)
}

// TextToNumber parses a leading decimal integer, like atoi: leading spaces
// and a sign are accepted, parsing stops at the first non-digit, and 0 is
// returned when there are no digits.
func (rt *Runtime) TextToNumber(s Word) int {
	b := bytes.TrimLeft(rt.TextBytes(s), " \t\n\r\v\f")
	end := 0
	if end < len(b) && (b[end] == '-' || b[end] == '+') {
		end++
	}
	for end < len(b) && '0' <= b[end] && b[end] <= '9' {
		end++
	}
	n, err := strconv.ParseInt(string(b[:end]), 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return int(n)
		}
		return 0
	}
	return int(n)
}

// NumberToText formats a number in decimal.
func (rt *Runtime) NumberToText(n int) Word {
	return rt.NewText(strconv.AppendInt(nil, int64(n), 10))
}

// CharToText returns the single byte text for a character code.
func (rt *Runtime) CharToText(c int) Word {
	return rt.NewText([]byte{byte(c)})
}

// BoolToText returns the pinned "true" or "false" text.
func (rt *Runtime) BoolToText(b bool) Word {
	if b {
		return rt.trueText
	}
	return rt.falseText
}

// PostToWall writes a line to the serial port.
func (rt *Runtime) PostToWall(p []byte) {
	line := make([]byte, 0, len(p)+1)
	line = append(line, p...)
	line = append(line, '\n')
	if err := rt.dev.SerialSend(line); err != nil {
		rt.log.Warn("serial send failed", zap.Error(err))
	}
}

// Assert halts with the message at literal offset msg unless cond holds.
func (rt *Runtime) Assert(cond bool, msg uint32) {
	if !cond {
		fault.Haltf(fault.ErrAssertion, 0, "%s", rt.TextBytes(Word(msg)))
	}
}

// SerialSendText sends a text on the serial port.
func (rt *Runtime) SerialSendText(s Word) {
	if err := rt.dev.SerialSend(rt.TextBytes(s)); err != nil {
		rt.log.Warn("serial send failed", zap.Error(err))
	}
}

// SerialReadText reads a line from the serial port; it is empty when
// nothing could be read.
func (rt *Runtime) SerialReadText() Word {
	line, err := rt.dev.SerialReadLine()
	if err != nil && len(line) == 0 {
		rt.log.Debug("serial read", zap.Error(err))
	}
	return rt.NewText(line)
}

// ScrollText scrolls a text across the display, one column every delay
// milliseconds, and waits for the scroll to finish.
func (rt *Runtime) ScrollText(s Word, delay int) {
	p := rt.TextBytes(s)
	rt.dev.ScrollText(p, time.Duration(delay)*time.Millisecond)
	if len(p) > 0 {
		rt.displayPause(hal.ScreenWidth+len(p)*textStride, delay)
	}
}

// ShowLetter shows the first byte of a text on the display.
func (rt *Runtime) ShowLetter(s Word) {
	if b := rt.TextBytes(s); len(b) > 0 {
		rt.dev.ShowLetter(b[0])
	}
}

// Panic shows a panic code on the device and halts.
func (rt *Runtime) Panic(code int) {
	rt.dev.Panic(code)
	fault.Halt(fault.ErrPanic, code)
}

// Reset reboots the device: the run ends, and every fiber unwinds.
func (rt *Runtime) Reset() {
	rt.dev.Reset()
	for key, a := range rt.subscriptions {
		delete(rt.subscriptions, key)
		rt.Release(a)
	}
	if rt.cancel != nil {
		rt.cancel()
	}
	rt.sched.Pause(0)
}
