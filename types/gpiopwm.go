package types

// ------------------------
// PWM
// ------------------------

// PWMInfo describes the configured actuation output.
type PWMInfo struct {
	Pin       int    `json:"pin"`
	Slice     int    `json:"slice,omitempty"`   // provider may fill
	Channel   string `json:"channel,omitempty"` // "A" or "B"
	FreqHz    uint64 `json:"freq_hz,omitempty"`
	Top       uint16 `json:"top,omitempty"`
	ActiveLow bool   `json:"active_low"`
}

// PWMValue is the last level written to the output.
type PWMValue struct {
	Level uint8  `json:"level"` // 0..100 (actuation level)
	Duty  uint16 `json:"duty"`  // 0..Top (physical compare value)
}
