package hal

import (
	"bufio"
	"bytes"
	"io"
)

type writeFlusher interface {
	io.Writer
	Flush() error
}

// newWriteFlusher creates a flushable serial transmitter: in memory buffers
// get a noop Flush; other writers, unless already flushable, are buffered.
func newWriteFlusher(w io.Writer) writeFlusher {
	if w == nil || w == io.Discard {
		return nopFlusher{io.Discard}
	}
	if wf, is := w.(writeFlusher); is {
		return wf
	}
	type buffer interface {
		io.Writer
		Len() int
		Reset()
	}
	if _, isBuffer := w.(buffer); isBuffer {
		return nopFlusher{w}
	}
	return bufio.NewWriter(w)
}

type nopFlusher struct{ io.Writer }

func (nf nopFlusher) Flush() error { return nil }

// newLineReader returns a buffered serial receiver over r; if r is already
// buffered, it is simply used.
func newLineReader(r io.Reader) *bufio.Reader {
	if r == nil {
		r = bytes.NewReader(nil)
	}
	if br, is := r.(*bufio.Reader); is {
		return br
	}
	return bufio.NewReader(r)
}

// readLine reads up to a line feed, dropping it and any carriage return.
func readLine(br *bufio.Reader) ([]byte, error) {
	line, err := br.ReadBytes('\n')
	if len(line) > 0 && err == io.EOF {
		err = nil
	}
	line = bytes.TrimSuffix(line, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})
	return line, err
}
