package actuator

import (
	"sync/atomic"

	"ledserial-go/types"
	"ledserial-go/x/timex"
)

// State is the shared actuation record. The supervisor is the only writer;
// tasks and the interpreter read it. A reader may see a value one update old.
type State struct {
	mode   atomic.Uint32
	level  atomic.Uint32
	freqHz atomic.Uint32
	repeat atomic.Uint32
}

func (s *State) Mode() types.Mode { return types.Mode(s.mode.Load()) }
func (s *State) Level() uint8     { return uint8(s.level.Load()) }
func (s *State) FreqHz() uint32   { return s.freqHz.Load() }
func (s *State) Repeat() uint32   { return s.repeat.Load() }

func (s *State) setMode(m types.Mode) { s.mode.Store(uint32(m)) }
func (s *State) setLevel(v uint8)     { s.level.Store(uint32(v)) }
func (s *State) setBlink(hz, n uint32) {
	s.freqHz.Store(hz)
	s.repeat.Store(n)
}

// Snapshot copies the current fields into a publishable value.
func (s *State) Snapshot() types.LEDState {
	return types.LEDState{
		Mode:   s.Mode(),
		Level:  s.Level(),
		FreqHz: s.FreqHz(),
		Repeat: s.Repeat(),
		TS:     timex.NowMs(),
	}
}
