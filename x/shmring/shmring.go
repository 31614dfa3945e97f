package shmring

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
)

// Ring is a single-producer, single-consumer byte ring.
// Readable/Writable deliver coalesced edge notifications.
type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32 // consumer index (monotonic)
	wr   atomic.Uint32 // producer index (monotonic)

	readable chan struct{} // 0 -> >0 available edge
	writable chan struct{} // 0 -> >0 space edge

	closed    atomic.Bool
	eof       chan struct{}
	closeOnce sync.Once
}

// New returns a ring of size bytes. size must be a power of two >= 2.
func New(size int) *Ring {
	if size < 2 || (size&(size-1)) != 0 {
		panic("shmring: size must be power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
		eof:      make(chan struct{}),
	}
}

func (r *Ring) size() uint32 { return uint32(len(r.buf)) }

func (r *Ring) Space() int {
	return int(r.size() - (r.wr.Load() - r.rd.Load()))
}

func (r *Ring) Available() int {
	return int(r.wr.Load() - r.rd.Load())
}

// Producer side

// TryWriteFrom copies as much of src as fits and returns the count.
func (r *Ring) TryWriteFrom(src []byte) (n int) {
	if len(src) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	before := wr - rd
	space := int(r.size() - before)
	if space <= 0 {
		return 0
	}
	n = min(space, len(src))

	idx := wr & r.mask
	first := min(int(r.size()-idx), n)
	copy(r.buf[idx:idx+uint32(first)], src[:first])
	if second := n - first; second > 0 {
		copy(r.buf[:second], src[first:n])
	}
	r.wr.Store(wr + uint32(n))

	if before == 0 {
		notify(r.readable)
	}
	return n
}

// WriteContext writes all of src, waiting for space as needed.
func (r *Ring) WriteContext(ctx context.Context, src []byte) (int, error) {
	total := 0
	for total < len(src) {
		n := r.TryWriteFrom(src[total:])
		total += n
		if n > 0 {
			continue
		}
		select {
		case <-r.writable:
		case <-ctx.Done():
			return total, ctx.Err()
		}
	}
	return total, nil
}

// Consumer side

// TryReadInto copies up to len(dst) available bytes and returns the count.
func (r *Ring) TryReadInto(dst []byte) (n int) {
	if len(dst) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	avail := int(wr - rd)
	if avail <= 0 {
		return 0
	}
	n = min(avail, len(dst))

	idx := rd & r.mask
	first := min(int(r.size()-idx), n)
	copy(dst[:first], r.buf[idx:idx+uint32(first)])
	if second := n - first; second > 0 {
		copy(dst[first:n], r.buf[:second])
	}
	r.rd.Store(rd + uint32(n))

	if int(r.size()-(wr-rd)) == 0 {
		notify(r.writable)
	}
	return n
}

// CloseWrite marks the end of input. Readers drain what is buffered and
// then see io.EOF.
func (r *Ring) CloseWrite() {
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		close(r.eof)
	})
}

// RecvSomeContext blocks until at least one byte is available, then reads
// what is there. It has the same shape as the UART receive call.
func (r *Ring) RecvSomeContext(ctx context.Context, dst []byte) (int, error) {
	for {
		closed := r.closed.Load()
		if n := r.TryReadInto(dst); n > 0 || len(dst) == 0 {
			return n, nil
		}
		if closed {
			return 0, io.EOF
		}
		select {
		case <-r.readable:
		case <-r.eof:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

func (r *Ring) Readable() <-chan struct{} { return r.readable }
func (r *Ring) Writable() <-chan struct{} { return r.writable }

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
