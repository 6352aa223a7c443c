package core

import (
	"bytes"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jcorbin/gobitvm/internal/fault"
	"github.com/jcorbin/gobitvm/internal/hal"
)

// InvalidPixel is what ImagePixel returns for coordinates outside the image.
const InvalidPixel = -1001

// textStride is the number of columns one scrolled character occupies.
const textStride = hal.ScreenWidth + 1

func (rt *Runtime) imageLiteral(lit uint32) hal.Bitmap {
	w, h, px, ok := rt.prog.Image.Bitmap(lit)
	if !ok {
		fault.Haltf(fault.ErrInvalidBinaryHeader, 10, "no image literal @%#x", lit)
	}
	return hal.Bitmap{Width: w, Height: h, Pixels: px}
}

// image resolves a heap image or an image literal; literals are read-only.
func (rt *Runtime) image(w Word) (bm hal.Bitmap, readOnly bool) {
	if IsRef(w) {
		img := deref[*Image](&rt.Heap, w)
		return img.Bitmap, img.readOnly
	}
	return rt.imageLiteral(uint32(w)), true
}

// NewImage allocates a writable heap copy of the image literal at lit.
func (rt *Runtime) NewImage(lit uint32) Word {
	return rt.Alloc(&Image{Bitmap: rt.imageLiteral(lit).Clone()})
}

// ReadOnlyImage allocates a heap image sharing the pixels of the image
// literal at lit.
func (rt *Runtime) ReadOnlyImage(lit uint32) Word {
	return rt.Alloc(&Image{Bitmap: rt.imageLiteral(lit), readOnly: true})
}

// CloneImage allocates a writable copy of any image.
func (rt *Runtime) CloneImage(w Word) Word {
	bm, _ := rt.image(w)
	return rt.Alloc(&Image{Bitmap: bm.Clone()})
}

// ClearImage darkens every pixel of a writable image.
func (rt *Runtime) ClearImage(w Word) {
	bm, readOnly := rt.image(w)
	if readOnly {
		rt.log.Debug("clear of read-only image ignored", zap.Stringer("image", w))
		return
	}
	for i := range bm.Pixels {
		bm.Pixels[i] = 0
	}
}

// ImagePixel returns the brightness at x, y, or InvalidPixel.
func (rt *Runtime) ImagePixel(w Word, x, y int) int {
	bm, _ := rt.image(w)
	v, ok := bm.At(x, y)
	if !ok {
		return InvalidPixel
	}
	return int(v)
}

// SetImagePixel changes the brightness at x, y. Writes outside the image or
// to a read-only image are ignored.
func (rt *Runtime) SetImagePixel(w Word, x, y, v int) {
	bm, readOnly := rt.image(w)
	if readOnly {
		rt.log.Debug("write to read-only image ignored", zap.Stringer("image", w))
		return
	}
	bm.Set(x, y, clampPixel(v))
}

func clampPixel(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// ImageWidth returns the width of an image.
func (rt *Runtime) ImageWidth(w Word) int {
	bm, _ := rt.image(w)
	return bm.Width
}

// ImageHeight returns the height of an image.
func (rt *Runtime) ImageHeight(w Word) int {
	bm, _ := rt.image(w)
	return bm.Height
}

// IsImageReadOnly reports whether pixel writes to an image are ignored.
func (rt *Runtime) IsImageReadOnly(w Word) bool {
	_, readOnly := rt.image(w)
	return readOnly
}

// ShowImage shows the screen window of an image starting at column offset.
func (rt *Runtime) ShowImage(w Word, offset int) {
	bm, _ := rt.image(w)
	rt.dev.ShowImage(bm, offset)
}

// PlotImage draws an image like ShowImage.
func (rt *Runtime) PlotImage(w Word, offset int) {
	rt.ShowImage(w, offset)
}

// ScrollImage scrolls an image across the screen, stride columns every delay
// milliseconds, and waits for the scroll to finish. A zero stride is one
// column.
func (rt *Runtime) ScrollImage(w Word, stride, delay int) {
	bm, _ := rt.image(w)
	if stride == 0 {
		stride = 1
	}
	rt.dev.ScrollImage(bm, stride, time.Duration(delay)*time.Millisecond)
	if stride < 0 {
		stride = -stride
	}
	rt.displayPause((bm.Width+hal.ScreenWidth+stride-1)/stride, delay)
}

// ShowLeds shows the image literal at lit, then waits delay milliseconds.
func (rt *Runtime) ShowLeds(lit uint32, delay int) {
	rt.dev.ShowImage(rt.imageLiteral(lit), 0)
	rt.displayPause(1, delay)
}

// PlotLeds shows the image literal at lit.
func (rt *Runtime) PlotLeds(lit uint32) {
	rt.dev.ShowImage(rt.imageLiteral(lit), 0)
}

// ShowAnimation plays the image literal at lit as screen wide frames, one
// every delay milliseconds, and waits for the last.
func (rt *Runtime) ShowAnimation(lit uint32, delay int) {
	bm := rt.imageLiteral(lit)
	rt.dev.Animate(bm, time.Duration(delay)*time.Millisecond)
	rt.displayPause((bm.Width+hal.ScreenWidth-1)/hal.ScreenWidth, delay)
}

// ScreenShot allocates a writable image of what the screen shows.
func (rt *Runtime) ScreenShot() Word {
	return rt.Alloc(&Image{Bitmap: rt.dev.ScreenShot()})
}

// SerialSendImage sends an image on the serial port, one line per row of
// comma separated brightness values.
func (rt *Runtime) SerialSendImage(w Word) {
	bm, _ := rt.image(w)
	var buf bytes.Buffer
	for y := 0; y < bm.Height; y++ {
		for x := 0; x < bm.Width; x++ {
			if x > 0 {
				buf.WriteByte(',')
			}
			v, _ := bm.At(x, y)
			buf.WriteString(strconv.Itoa(int(v)))
		}
		buf.WriteByte('\n')
	}
	if err := rt.dev.SerialSend(buf.Bytes()); err != nil {
		rt.log.Warn("serial send failed", zap.Error(err))
	}
}

// SerialReadImage reads a width by height image from the serial port in the
// form SerialSendImage writes. Missing or malformed values are dark.
func (rt *Runtime) SerialReadImage(width, height int) Word {
	fault.Check(width > 0 && height > 0 && width*height <= 0xffff, fault.ErrSize, 3)
	bm := hal.NewBitmap(width, height)
	for y := 0; y < height; y++ {
		line, err := rt.dev.SerialReadLine()
		if err != nil && len(line) == 0 {
			rt.log.Debug("serial read", zap.Error(err))
			break
		}
		for x, field := range bytes.Split(line, []byte{','}) {
			if v, err := strconv.Atoi(string(bytes.TrimSpace(field))); err == nil {
				bm.Set(x, y, clampPixel(v))
			}
		}
	}
	return rt.Alloc(&Image{Bitmap: bm})
}

// displayPause waits for a display effect of steps frames delay milliseconds
// apart.
func (rt *Runtime) displayPause(steps, delay int) {
	if steps > 0 && delay > 0 {
		rt.sched.Pause(time.Duration(steps*delay) * time.Millisecond)
	}
}
