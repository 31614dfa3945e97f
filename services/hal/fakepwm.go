package hal

import "sync"

// FakePWM records every compare value written. Used by the host simulator
// and tests.
type FakePWM struct {
	mu      sync.Mutex
	FreqHz  uint64
	Top     uint16
	history []uint16

	// ConfigureErr, when set, is returned from Configure.
	ConfigureErr error
}

func (f *FakePWM) Configure(freqHz uint64, top uint16) error {
	if f.ConfigureErr != nil {
		return f.ConfigureErr
	}
	f.mu.Lock()
	f.FreqHz, f.Top = freqHz, top
	f.mu.Unlock()
	return nil
}

func (f *FakePWM) Set(duty uint16) {
	f.mu.Lock()
	f.history = append(f.history, duty)
	f.mu.Unlock()
}

// Last returns the most recent compare value, or 0 if none was written.
func (f *FakePWM) Last() uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.history) == 0 {
		return 0
	}
	return f.history[len(f.history)-1]
}

// History returns a copy of all compare values in write order.
func (f *FakePWM) History() []uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint16(nil), f.history...)
}
