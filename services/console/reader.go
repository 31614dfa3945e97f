package console

import (
	"context"
	"errors"
	"io"

	"ledserial-go/cmdbuf"
)

const (
	cr  = '\r'
	lf  = '\n'
	bs  = 0x08
	del = 0x7f
)

// LineReader assembles newline-terminated lines from a Port. Carriage
// returns are dropped. Bytes past cmdbuf.LineCap are discarded up to the
// next newline.
type LineReader struct {
	port Port
	echo bool

	rx   [64]byte
	head int
	tail int

	line      [cmdbuf.LineCap]byte
	n         int
	truncated bool
}

func NewLineReader(p Port, echo bool) *LineReader {
	return &LineReader{port: p, echo: echo}
}

// ReadLine blocks until a full line is available. The returned slice is
// valid until the next call. At end of input a pending partial line is
// returned first, then io.EOF.
func (r *LineReader) ReadLine(ctx context.Context) (line []byte, truncated bool, err error) {
	for {
		for r.head < r.tail {
			c := r.rx[r.head]
			r.head++
			if r.feed(c) {
				return r.take()
			}
		}
		n, err := r.port.RecvSomeContext(ctx, r.rx[:])
		if n > 0 {
			r.head, r.tail = 0, n
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && (r.n > 0 || r.truncated) {
				return r.take()
			}
			return nil, false, err
		}
	}
}

// feed consumes one byte and reports whether it ended a line.
func (r *LineReader) feed(c byte) bool {
	switch c {
	case cr:
		return false
	case lf:
		r.write([]byte("\r\n"))
		return true
	case bs, del:
		if r.n > 0 && !r.truncated {
			r.n--
			r.write([]byte("\b \b"))
		}
		return false
	}
	if r.n < len(r.line) {
		r.line[r.n] = c
		r.n++
		r.write([]byte{c})
	} else {
		r.truncated = true
	}
	return false
}

func (r *LineReader) take() ([]byte, bool, error) {
	line, tr := r.line[:r.n], r.truncated
	r.n, r.truncated = 0, false
	return line, tr, nil
}

func (r *LineReader) write(p []byte) {
	if r.echo {
		_, _ = r.port.Write(p)
	}
}
