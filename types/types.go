package types

// ---- Service state (retained) ----

type ServiceState struct {
	Level  string `json:"level"`  // "starting", "ready", "stopped"
	Status string `json:"status"` // freeform short code
	TS     int64  `json:"ts_ms"`
}

// ---- Actuation ----

// Mode is the active actuation behaviour. Exactly one holds at a time.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeBlinking
	ModeBrightness
)

func (m Mode) String() string {
	switch m {
	case ModeBlinking:
		return "blinking"
	case ModeBrightness:
		return "brightness"
	default:
		return "idle"
	}
}

func (m Mode) MarshalJSON() ([]byte, error) { return []byte(`"` + m.String() + `"`), nil }

// LEDState is published retained on led/state after every mode transition.
type LEDState struct {
	Mode   Mode   `json:"mode"`
	Level  uint8  `json:"level"`   // 0..100
	FreqHz uint32 `json:"freq_hz"` // last programmed blink frequency
	Repeat uint32 `json:"repeat"`  // last programmed blink count
	TS     int64  `json:"ts_ms"`
}
