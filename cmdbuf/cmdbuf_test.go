package cmdbuf

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestPublishConsume(t *testing.T) {
	b := New()
	ctx := context.Background()

	if tr, err := b.Publish(ctx, []byte("pisca 5 3")); err != nil || tr {
		t.Fatalf("publish: truncated=%v err=%v", tr, err)
	}
	if !b.Pending() {
		t.Fatal("line not pending after publish")
	}
	var got string
	if err := b.Consume(ctx, func(l []byte) error { got = string(l); return nil }); err != nil {
		t.Fatal(err)
	}
	if got != "pisca 5 3" {
		t.Fatalf("consumed %q", got)
	}
	if b.Pending() {
		t.Fatal("still pending after consume")
	}
}

func TestPublishTruncates(t *testing.T) {
	b := New()
	ctx := context.Background()
	long := strings.Repeat("x", LineCap+10)

	tr, err := b.Publish(ctx, []byte(long))
	if err != nil || !tr {
		t.Fatalf("truncated=%v err=%v", tr, err)
	}
	_ = b.Consume(ctx, func(l []byte) error {
		if len(l) != LineCap {
			t.Fatalf("len = %d, want %d", len(l), LineCap)
		}
		return nil
	})
}

func TestConsumeReleasesOnError(t *testing.T) {
	b := New()
	ctx := context.Background()
	_, _ = b.Publish(ctx, []byte("x"))

	boom := errors.New("boom")
	if err := b.Consume(ctx, func([]byte) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if b.Pending() {
		t.Fatal("slot not released after failing handler")
	}
}

func TestConsumeBlocksUntilPublished(t *testing.T) {
	b := New()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := b.Consume(ctx, func([]byte) error {
		t.Fatal("handler ran without a line")
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
}

func TestSecondPublishWaitsForConsumer(t *testing.T) {
	b := New()
	ctx := context.Background()
	_, _ = b.Publish(ctx, []byte("first"))

	done := make(chan struct{})
	go func() {
		_, _ = b.Publish(ctx, []byte("second"))
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second publish did not wait")
	case <-time.After(20 * time.Millisecond):
	}

	_ = b.Consume(ctx, func(l []byte) error {
		if string(l) != "first" {
			t.Fatalf("got %q", l)
		}
		return nil
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second publish never completed")
	}
	_ = b.Consume(ctx, func(l []byte) error {
		if string(l) != "second" {
			t.Fatalf("got %q", l)
		}
		return nil
	})
}

func TestStrictAlternation(t *testing.T) {
	b := New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const n = 200
	var (
		mu     sync.Mutex
		events []string
	)
	record := func(s string) {
		mu.Lock()
		events = append(events, s)
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			if _, err := b.Publish(ctx, []byte{byte(i)}); err != nil {
				t.Errorf("publish: %v", err)
				return
			}
			record("p")
			if err := b.AwaitConsumed(ctx); err != nil {
				t.Errorf("await: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			err := b.Consume(ctx, func(l []byte) error {
				if len(l) != 1 || l[0] != byte(i) {
					t.Errorf("line %d: got %v", i, l)
				}
				return nil
			})
			if err != nil {
				t.Errorf("consume: %v", err)
				return
			}
			record("c")
		}
	}()
	wg.Wait()

	if len(events) != 2*n {
		t.Fatalf("events = %d", len(events))
	}
}

func TestAwaitConsumedCancel(t *testing.T) {
	b := New()
	_, _ = b.Publish(context.Background(), []byte("x"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.AwaitConsumed(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
