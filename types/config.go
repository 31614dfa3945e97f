package types

// Config is the decoded per-device configuration document.
type Config struct {
	Console   ConsoleConfig   `json:"console"`
	Actuator  ActuatorConfig  `json:"actuator"`
	Log       LogConfig       `json:"log"`
	PWM       PWMConfig       `json:"pwm"`
	Heartbeat HeartbeatConfig `json:"heartbeat"`
}

type ConsoleConfig struct {
	Prompt string `json:"prompt"`
	Echo   bool   `json:"echo"`
	Baud   uint32 `json:"baud"`
	TXPin  int    `json:"tx_pin"`
	RXPin  int    `json:"rx_pin"`
}

type ActuatorConfig struct {
	MaxBlinkHz       int    `json:"max_blink_hz"`       // above this a warning is shown
	BrightnessTickMs uint32 `json:"brightness_tick_ms"` // brightness refresh period
}

type LogConfig struct {
	Pages    int    `json:"pages"`     // total pages including the header page
	PageSize int    `json:"page_size"` // bytes per page (>= record width)
	I2CAddr  uint16 `json:"i2c_addr,omitempty"`
	SDAPin   int    `json:"sda_pin,omitempty"`
	SCLPin   int    `json:"scl_pin,omitempty"`
	I2CHz    uint32 `json:"i2c_hz,omitempty"`
}

type PWMConfig struct {
	Pin       int    `json:"pin"`
	FreqHz    uint64 `json:"freq_hz"`
	Top       uint16 `json:"top"`
	ActiveLow bool   `json:"active_low"`
}

type HeartbeatConfig struct {
	Interval int `json:"interval"` // seconds; 0 disables
}
