package image

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Dump writes a human readable layout of img to out: the header, then every
// action entry header, text literal and image literal found by scanning the
// code region.
// Names, if non-nil, label offsets as produced by Builder.Names.
func Dump(out io.Writer, img Image, names map[uint32]string) error {
	dump := dumper{img: img, names: names}
	dump.addrWidth = len(strconv.FormatUint(uint64(len(img)), 16))
	return dump.dump(out)
}

type dumper struct {
	img       Image
	names     map[uint32]string
	addrWidth int
	buf       bytes.Buffer
}

func (dump *dumper) dump(out io.Writer) error {
	hdr, err := dump.img.Header()
	if err != nil {
		return err
	}

	fmt.Fprintf(&dump.buf, "# Image Dump\n")
	fmt.Fprintf(&dump.buf, "  size: %v\n", len(dump.img))
	fmt.Fprintf(&dump.buf, "  version: %#x", hdr.Version)
	if hdr.Version != Version {
		fmt.Fprintf(&dump.buf, " MISMATCH expected %#x", Version)
	}
	dump.buf.WriteByte('\n')
	fmt.Fprintf(&dump.buf, "  globals: %v\n", hdr.Globals)

	fmt.Fprintf(&dump.buf, "# Code @%#x\n", HeaderSize)
	for off := uint32(HeaderSize); off < uint32(len(dump.img)); {
		off = dump.formatAt(off)
	}

	_, err = dump.buf.WriteTo(out)
	return err
}

func (dump *dumper) formatAt(off uint32) uint32 {
	if off == HeaderSize {
		dump.line(off, "main", "entry @%#x", MainEntry)
		return off + 2
	}

	magic, _ := dump.img.Uint16(off)
	if magic != EntryMagic {
		return off + 2
	}

	if text, ok := dump.img.Text(off); ok && len(text) > 0 {
		dump.line(off, dump.names[off], "text %q", text)
		end := off + 4 + uint32(len(text)) + 1
		return (end + 1) &^ 1
	}

	if dump.img.CheckEntry(off) == 0 {
		dump.line(off, dump.names[off], "action entry @%#x", EntryPoint(off))
		return off + EntryHeaderSize
	}

	if width, height, _, ok := dump.img.Bitmap(off); ok {
		dump.line(off, dump.names[off], "image %vx%v", width, height)
		end := off + 4 + uint32(width*height)
		return (end + 1) &^ 1
	}

	return off + 2
}

func (dump *dumper) line(off uint32, name, mess string, args ...interface{}) {
	fmt.Fprintf(&dump.buf, "  @%0*x ", dump.addrWidth, off)
	if name != "" {
		dump.buf.WriteString(name)
		dump.buf.WriteString(": ")
	}
	fmt.Fprintf(&dump.buf, mess, args...)
	dump.buf.WriteByte('\n')
}
