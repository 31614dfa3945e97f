package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// PeriodFromHz returns a nanosecond period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return uint64(1_000_000_000 / uint64(freqHz))
}

// HalfPeriod is the on (or off) hold time of one square-wave cycle at freqHz.
func HalfPeriod(freqHz uint32) time.Duration {
	return time.Duration(PeriodFromHz(freqHz) / 2)
}

// Ms converts a millisecond count to a Duration, with 0 coerced to 1ms.
func Ms(ms uint32) time.Duration {
	if ms == 0 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}
