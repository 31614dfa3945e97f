package ramp

import "time"

// Step applies one intermediate level.
type Step func(level uint8)

// Tick waits for d and reports whether to continue (false => cancelled).
type Tick func(d time.Duration) bool

// Linear walks from cur to to in steps equal increments spread over
// duration, calling set for every level change and finishing on to.
// steps==0 or duration==0 snaps to 'to'. It returns false if tick cancelled.
func Linear(cur, to uint8, duration time.Duration, steps int, tick Tick, set Step) bool {
	if steps <= 0 || duration <= 0 {
		set(to)
		return true
	}
	stepDur := max(duration/time.Duration(steps), time.Millisecond)
	delta := int(to) - int(cur)
	last := int(cur)
	for i := 1; i < steps; i++ {
		if !tick(stepDur) {
			return false
		}
		lvl := int(cur) + delta*i/steps
		if lvl != last {
			last = lvl
			set(uint8(lvl))
		}
	}
	if !tick(stepDur) {
		return false
	}
	set(to)
	return true
}
