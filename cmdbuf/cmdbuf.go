// Package cmdbuf is the single-slot rendezvous between the line collector
// and the command interpreter.
//
// The producer publishes one line and waits for it to be consumed before
// publishing the next; the consumer handles a line while holding the buffer,
// so a line is never observed half-written and never handled twice.
package cmdbuf

import (
	"context"
	"sync"
)

// LineCap is the most bytes one command line may carry. Longer input is
// truncated. The persistent log record width is the same value.
const LineCap = 55

// Buffer holds at most one pending line.
type Buffer struct {
	mu    sync.Mutex
	line  [LineCap]byte
	n     int
	ready bool
	// closed and replaced on every ready transition
	changed chan struct{}
}

func New() *Buffer {
	return &Buffer{changed: make(chan struct{})}
}

// caller holds b.mu
func (b *Buffer) signal() {
	close(b.changed)
	b.changed = make(chan struct{})
}

// wait blocks until cond holds with b.mu held, or ctx ends (b.mu released).
func (b *Buffer) wait(ctx context.Context, cond func() bool) error {
	b.mu.Lock()
	for !cond() {
		ch := b.changed
		b.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		b.mu.Lock()
	}
	return nil
}

// Publish copies line into the slot and marks it ready. If a previous line
// is still pending it first waits for it to be consumed. It reports whether
// the line was cut to LineCap.
func (b *Buffer) Publish(ctx context.Context, line []byte) (truncated bool, err error) {
	if err := b.wait(ctx, func() bool { return !b.ready }); err != nil {
		return false, err
	}
	b.n = copy(b.line[:], line)
	b.ready = true
	b.signal()
	b.mu.Unlock()
	return len(line) > LineCap, nil
}

// AwaitConsumed blocks until no line is pending.
func (b *Buffer) AwaitConsumed(ctx context.Context) error {
	if err := b.wait(ctx, func() bool { return !b.ready }); err != nil {
		return err
	}
	b.mu.Unlock()
	return nil
}

// Consume blocks until a line is ready, then runs fn on it with the buffer
// held. The slice is only valid during fn. The slot is released after fn
// returns, whatever fn returns.
func (b *Buffer) Consume(ctx context.Context, fn func(line []byte) error) error {
	if err := b.wait(ctx, func() bool { return b.ready }); err != nil {
		return err
	}
	defer func() {
		b.ready = false
		b.n = 0
		b.signal()
		b.mu.Unlock()
	}()
	return fn(b.line[:b.n])
}

// Pending reports whether a line is waiting to be consumed.
func (b *Buffer) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}
