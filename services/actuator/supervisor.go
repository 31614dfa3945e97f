// Package actuator owns the LED output. A Supervisor runs at most one of two
// fixed task loops (blink or steady brightness) and switches between them
// on command.
package actuator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"ledserial-go/bus"
	"ledserial-go/types"
	"ledserial-go/x/logx"
	"ledserial-go/x/timex"
)

// Full-on and off actuation levels.
const (
	LevelOn  uint8 = 100
	LevelOff uint8 = 0
)

// DefaultBrightnessTick is the refresh period of the brightness loop.
const DefaultBrightnessTick = 10 * time.Millisecond

// TopicState carries the retained types.LEDState after every transition.
var TopicState = bus.T("led/state")

// Output is the actuation sink. *hal.Output satisfies it.
type Output interface {
	SetLevel(level uint8)
}

type Options struct {
	// BrightnessTick defaults to DefaultBrightnessTick.
	BrightnessTick time.Duration
	// Conn, when set, receives state transitions.
	Conn *bus.Connection
}

type Supervisor struct {
	mu    sync.Mutex
	ctx   context.Context
	out   Output
	state State
	conn  *bus.Connection
	tick  time.Duration

	// current task; nil when idle
	cancel context.CancelFunc
	done   chan struct{}
	// bumped before every stop so a finishing task can tell it was superseded
	gen atomic.Uint64
}

// New returns an idle supervisor. Tasks it starts end when ctx does.
func New(ctx context.Context, out Output, opts Options) *Supervisor {
	tick := opts.BrightnessTick
	if tick <= 0 {
		tick = DefaultBrightnessTick
	}
	s := &Supervisor{ctx: ctx, out: out, conn: opts.Conn, tick: tick}
	out.SetLevel(LevelOff)
	s.publish()
	return s
}

// State exposes the shared actuation state for reading.
func (s *Supervisor) State() *State { return &s.state }

// caller holds s.mu
func (s *Supervisor) stop() {
	s.gen.Add(1)
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel, s.done = nil, nil
}

// caller holds s.mu
func (s *Supervisor) start(name string, run func(ctx context.Context, gen uint64)) {
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	gen := s.gen.Load()
	s.cancel, s.done = cancel, done
	go func() {
		defer close(done)
		logx.Debug("actuator task started", "task", name)
		run(ctx, gen)
		logx.Debug("actuator task stopped", "task", name)
	}()
}

func (s *Supervisor) publish() {
	if s.conn == nil {
		return
	}
	s.conn.Publish(s.conn.NewMessage(TopicState, s.state.Snapshot(), true))
}

// Blink stops any running task and blinks n times at hz.
func (s *Supervisor) Blink(hz, n uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()
	s.state.setBlink(hz, n)
	s.state.setMode(types.ModeBlinking)
	s.publish()
	s.start("blink", func(ctx context.Context, gen uint64) { s.blink(ctx, gen, hz, n) })
}

// Brightness stops any running task and holds the output at level.
func (s *Supervisor) Brightness(level uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()
	s.state.setLevel(level)
	s.state.setMode(types.ModeBrightness)
	s.publish()
	s.start("brightness", s.hold)
}

// ResetBrightness zeroes the stored level and, if the output is in steady
// brightness, stops it.
func (s *Supervisor) ResetBrightness() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.setLevel(0)
	if s.state.Mode() == types.ModeBrightness {
		s.idle()
	}
	s.publish()
}

// ResetFrequency zeroes the stored blink parameters and, if blinking, stops.
func (s *Supervisor) ResetFrequency() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.setBlink(0, 0)
	if s.state.Mode() == types.ModeBlinking {
		s.idle()
	}
	s.publish()
}

// Off stops whatever is running and drives the output inactive.
func (s *Supervisor) Off() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idle()
	s.publish()
}

// caller holds s.mu
func (s *Supervisor) idle() {
	s.stop()
	s.state.setMode(types.ModeIdle)
	s.out.SetLevel(LevelOff)
}

// sleep returns false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (s *Supervisor) blink(ctx context.Context, gen uint64, hz, n uint32) {
	half := timex.HalfPeriod(hz)
	if n == 0 {
		// a preempted brightness task may have left the output lit
		s.out.SetLevel(LevelOff)
	}
	for i := uint32(0); i < n; i++ {
		s.out.SetLevel(LevelOn)
		if !sleep(ctx, half) {
			return
		}
		s.out.SetLevel(LevelOff)
		if !sleep(ctx, half) {
			return
		}
	}
	if s.gen.Load() == gen {
		s.state.setMode(types.ModeIdle)
		s.publish()
		logx.Info("blink finished", "count", n)
	}
}

func (s *Supervisor) hold(ctx context.Context, _ uint64) {
	t := time.NewTicker(s.tick)
	defer t.Stop()
	for {
		s.out.SetLevel(s.state.Level())
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
