// Package image describes the compiled binary image: a read-only block of
// little-endian words holding a fixed header, the entry code, action entry
// headers and embedded literals.
//
// Layout:
//
//	[version:32][globalCount:32][reserved:6x32][entry code + literals...]
//
// Every action entry starts with [0xFFFF:16][0x0000:16]; text literals are
// laid out as [0xFFFF:16][len:16][bytes...][NUL]; image literals as
// [0xFFFF:16][width:8][height:8][pixels...], one brightness byte per pixel in
// row major order.
package image

import (
	"encoding/binary"
	"fmt"
)

const (
	// Version is the protocol version expected in the first header word.
	Version uint32 = 0x4205

	// HeaderSize is the byte size of the image header; entry code follows.
	HeaderSize = 8 * 4

	// ReservedWords counts the reserved header words after globalCount.
	ReservedWords = 6

	// EntryMagic marks every action entry header and text literal.
	EntryMagic uint16 = 0xFFFF

	// EntryHeaderSize is the byte size of an action entry header.
	EntryHeaderSize = 4

	// ThumbBit is the instruction-mode tag carried by callable addresses.
	ThumbBit uint32 = 1
)

// Image is a compiled binary image.
type Image []byte

// Header is the decoded image header.
type Header struct {
	Version uint32
	Globals uint32
}

// HeaderError reports an image too short to hold a header.
type HeaderError int

func (n HeaderError) Error() string {
	return fmt.Sprintf("image too short for header: have %v bytes, need %v", int(n), HeaderSize)
}

// Header decodes the image header.
func (img Image) Header() (Header, error) {
	if len(img) < HeaderSize {
		return Header{}, HeaderError(len(img))
	}
	return Header{
		Version: binary.LittleEndian.Uint32(img[0:]),
		Globals: binary.LittleEndian.Uint32(img[4:]),
	}, nil
}

// Uint16 returns the half word at off, and false if it lies outside the image.
func (img Image) Uint16(off uint32) (uint16, bool) {
	if uint64(off)+2 > uint64(len(img)) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(img[off:]), true
}

// Uint32 returns the word at off, and false if it lies outside the image.
func (img Image) Uint32(off uint32) (uint32, bool) {
	if uint64(off)+4 > uint64(len(img)) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(img[off:]), true
}

// CheckEntry validates an action entry header at off. It returns 0 if the
// header is valid, 3 if the magic marker is wrong, or 4 if the reserved half
// word is not zero; these are the subcodes reported on failure.
func (img Image) CheckEntry(off uint32) int {
	if magic, ok := img.Uint16(off); !ok || magic != EntryMagic {
		return 3
	}
	if zero, ok := img.Uint16(off + 2); !ok || zero != 0 {
		return 4
	}
	return 0
}

// EntryPoint returns the callable address of the code following an action
// entry header at off.
func EntryPoint(off uint32) uint32 {
	return (off + EntryHeaderSize) | ThumbBit
}

// MainEntry is the callable address of the code following the image header.
const MainEntry = uint32(HeaderSize) | ThumbBit

// Text returns the bytes of a text literal at off, and false if off does
// not hold a well formed literal.
func (img Image) Text(off uint32) ([]byte, bool) {
	magic, ok := img.Uint16(off)
	if !ok || magic != EntryMagic {
		return nil, false
	}
	n, ok := img.Uint16(off + 2)
	if !ok {
		return nil, false
	}
	start := uint64(off) + 4
	end := start + uint64(n)
	if end >= uint64(len(img)) || img[end] != 0 {
		return nil, false
	}
	return img[start:end:end], true
}

// Bitmap returns the dimensions and pixels of an image literal at off, and
// false if off does not hold a well formed one.
func (img Image) Bitmap(off uint32) (width, height int, pixels []byte, ok bool) {
	magic, ok := img.Uint16(off)
	if !ok || magic != EntryMagic {
		return 0, 0, nil, false
	}
	if uint64(off)+4 > uint64(len(img)) {
		return 0, 0, nil, false
	}
	width, height = int(img[off+2]), int(img[off+3])
	if width == 0 || height == 0 {
		return 0, 0, nil, false
	}
	start := uint64(off) + 4
	end := start + uint64(width*height)
	if end > uint64(len(img)) {
		return 0, 0, nil, false
	}
	return width, height, img[start:end:end], true
}
