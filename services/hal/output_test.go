package hal

import (
	"errors"
	"testing"

	"ledserial-go/types"
)

func newOut(t *testing.T, activeLow bool) (*Output, *FakePWM) {
	t.Helper()
	f := &FakePWM{}
	o, err := NewOutput(f, types.PWMConfig{Pin: 25, FreqHz: 1000, Top: 1000, ActiveLow: activeLow})
	if err != nil {
		t.Fatalf("NewOutput: %v", err)
	}
	return o, f
}

func TestNewOutputStartsInactive(t *testing.T) {
	o, f := newOut(t, false)
	if f.FreqHz != 1000 || f.Top != 1000 {
		t.Fatalf("pwm not configured: %+v", f)
	}
	if f.Last() != 0 || o.Level() != 0 {
		t.Fatalf("initial duty=%d level=%d", f.Last(), o.Level())
	}
}

func TestLevelEndpoints(t *testing.T) {
	o, f := newOut(t, false)
	o.SetLevel(1)
	if f.Last() != 1 {
		t.Fatalf("level 1 -> duty %d, want 1", f.Last())
	}
	o.SetLevel(100)
	if f.Last() != 1000 {
		t.Fatalf("level 100 -> duty %d, want top", f.Last())
	}
	o.Off()
	if f.Last() != 0 {
		t.Fatalf("off -> duty %d", f.Last())
	}
}

func TestLevelMonotonic(t *testing.T) {
	o, f := newOut(t, false)
	var prev uint16
	for lvl := 1; lvl <= 100; lvl++ {
		o.SetLevel(uint8(lvl))
		d := f.Last()
		if d <= prev {
			t.Fatalf("duty not increasing at level %d: %d <= %d", lvl, d, prev)
		}
		prev = d
	}
}

func TestLevelClamped(t *testing.T) {
	o, f := newOut(t, false)
	o.SetLevel(250)
	if o.Level() != 100 || f.Last() != 1000 {
		t.Fatalf("level=%d duty=%d", o.Level(), f.Last())
	}
}

func TestActiveLowInverts(t *testing.T) {
	o, f := newOut(t, true)
	if f.Last() != 1000 {
		t.Fatalf("inactive active-low duty = %d, want top", f.Last())
	}
	o.SetLevel(100)
	if f.Last() != 0 {
		t.Fatalf("full active-low duty = %d, want 0", f.Last())
	}
}

func TestOnChangeOnlyOnChange(t *testing.T) {
	o, _ := newOut(t, false)
	var seen []types.PWMValue
	o.OnChange = func(v types.PWMValue) { seen = append(seen, v) }

	o.SetLevel(50)
	o.SetLevel(50)
	o.SetLevel(0)
	if len(seen) != 2 {
		t.Fatalf("callbacks = %d, want 2", len(seen))
	}
	if seen[0].Level != 50 || seen[1].Level != 0 || seen[1].Duty != 0 {
		t.Fatalf("seen = %+v", seen)
	}
}

func TestNewOutputErrors(t *testing.T) {
	if _, err := NewOutput(&FakePWM{}, types.PWMConfig{}); err == nil {
		t.Fatal("zero top accepted")
	}
	boom := errors.New("slice busy")
	if _, err := NewOutput(&FakePWM{ConfigureErr: boom}, types.PWMConfig{Top: 10}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
