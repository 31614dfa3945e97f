package ramp

import (
	"testing"
	"time"
)

func noWait(time.Duration) bool { return true }

func TestLinearUpIsMonotonicAndEndsOnTarget(t *testing.T) {
	var got []uint8
	if !Linear(0, 100, time.Second, 10, noWait, func(l uint8) { got = append(got, l) }) {
		t.Fatal("cancelled")
	}
	if len(got) != 10 || got[len(got)-1] != 100 {
		t.Fatalf("levels = %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("not increasing: %v", got)
		}
	}
}

func TestLinearDown(t *testing.T) {
	var got []uint8
	Linear(100, 0, time.Second, 4, noWait, func(l uint8) { got = append(got, l) })
	want := []uint8{75, 50, 25, 0}
	if len(got) != len(want) {
		t.Fatalf("levels = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("levels = %v, want %v", got, want)
		}
	}
}

func TestLinearSnap(t *testing.T) {
	var got []uint8
	Linear(10, 60, 0, 5, noWait, func(l uint8) { got = append(got, l) })
	if len(got) != 1 || got[0] != 60 {
		t.Fatalf("levels = %v", got)
	}
}

func TestLinearCancel(t *testing.T) {
	n := 0
	tick := func(time.Duration) bool { n++; return n < 3 }
	var got []uint8
	if Linear(0, 100, time.Second, 10, tick, func(l uint8) { got = append(got, l) }) {
		t.Fatal("expected cancellation")
	}
	if len(got) != 2 {
		t.Fatalf("levels = %v", got)
	}
}

func TestLinearStepDuration(t *testing.T) {
	var seen []time.Duration
	tick := func(d time.Duration) bool { seen = append(seen, d); return true }
	Linear(0, 10, 100*time.Millisecond, 4, tick, func(uint8) {})
	if len(seen) != 4 || seen[0] != 25*time.Millisecond {
		t.Fatalf("ticks = %v", seen)
	}
}
