package console

import (
	"bytes"
	"context"
	"sync"

	"ledserial-go/x/shmring"
)

// testPort feeds input through a ring and captures everything written.
type testPort struct {
	in  *shmring.Ring
	mu  sync.Mutex
	out bytes.Buffer
}

func newTestPort(input string) *testPort {
	p := &testPort{in: shmring.New(1024)}
	p.in.TryWriteFrom([]byte(input))
	return p
}

func (p *testPort) RecvSomeContext(ctx context.Context, b []byte) (int, error) {
	return p.in.RecvSomeContext(ctx, b)
}

func (p *testPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.Write(b)
}

func (p *testPort) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.String()
}
