package image

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// codeStub fills the space of linked entry code: "bx lr; nop".
var codeStub = []byte{0x70, 0x47, 0xc0, 0x46}

// Builder assembles an image. The compiler toolchain is out of scope; the
// builder lays out exactly the structures the runtime validates, so that
// programs linked in Go can be exercised against real image bytes.
type Builder struct {
	buf   []byte
	names map[uint32]string
}

// NewBuilder starts an image with the given global count, followed by a
// placeholder for the main entry code.
func NewBuilder(globals int) *Builder {
	b := &Builder{names: make(map[uint32]string)}
	b.word(Version)
	b.word(uint32(globals))
	for i := 0; i < ReservedWords; i++ {
		b.word(0)
	}
	b.names[HeaderSize] = "main"
	b.buf = append(b.buf, codeStub...)
	return b
}

func (b *Builder) word(w uint32) {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, w)
}

func (b *Builder) half(h uint16) {
	b.buf = binary.LittleEndian.AppendUint16(b.buf, h)
}

func (b *Builder) align() {
	for len(b.buf)%4 != 0 {
		b.buf = append(b.buf, 0)
	}
}

// Entry emits an action entry header followed by a code placeholder, and
// returns the header offset.
func (b *Builder) Entry(name string) uint32 {
	b.align()
	off := uint32(len(b.buf))
	b.half(EntryMagic)
	b.half(0)
	b.buf = append(b.buf, codeStub...)
	b.names[off] = name
	return off
}

// Text emits a text literal and returns its offset.
func (b *Builder) Text(s string) uint32 {
	if len(s) > 0xffff {
		panic(fmt.Sprintf("image: text literal too long: %v bytes", len(s)))
	}
	b.align()
	off := uint32(len(b.buf))
	b.half(EntryMagic)
	b.half(uint16(len(s)))
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0)
	b.names[off] = fmt.Sprintf("%q", s)
	return off
}

// Bitmap emits an image literal and returns its offset.
func (b *Builder) Bitmap(width, height int, pixels ...byte) uint32 {
	if width <= 0 || width > 0xff || height <= 0 || height > 0xff {
		panic(fmt.Sprintf("image: invalid bitmap size %vx%v", width, height))
	}
	if len(pixels) != width*height {
		panic(fmt.Sprintf("image: %vx%v bitmap given %v pixels", width, height, len(pixels)))
	}
	b.align()
	off := uint32(len(b.buf))
	b.half(EntryMagic)
	b.buf = append(b.buf, byte(width), byte(height))
	b.buf = append(b.buf, pixels...)
	b.names[off] = fmt.Sprintf("%vx%v", width, height)
	return off
}

// Leds emits an image literal drawn as rows of '#' (lit) and '.' (dark);
// spaces are ignored.
func (b *Builder) Leds(rows ...string) uint32 {
	var pixels []byte
	width := -1
	for _, row := range rows {
		row = strings.ReplaceAll(row, " ", "")
		if width < 0 {
			width = len(row)
		} else if len(row) != width {
			panic(fmt.Sprintf("image: ragged leds row %q", row))
		}
		for _, c := range row {
			switch c {
			case '#':
				pixels = append(pixels, 0xff)
			case '.':
				pixels = append(pixels, 0)
			default:
				panic(fmt.Sprintf("image: invalid led %q", c))
			}
		}
	}
	return b.Bitmap(width, len(rows), pixels...)
}

// Raw emits arbitrary bytes, returning their offset.
func (b *Builder) Raw(p ...byte) uint32 {
	off := uint32(len(b.buf))
	b.buf = append(b.buf, p...)
	return off
}

// Image returns a copy of the assembled image.
func (b *Builder) Image() Image {
	b.align()
	return append(Image(nil), b.buf...)
}

// Names returns the names given to entries and literals, by offset.
func (b *Builder) Names() map[uint32]string {
	names := make(map[uint32]string, len(b.names))
	for off, name := range b.names {
		names[off] = name
	}
	return names
}
