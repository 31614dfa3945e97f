// Package hal is the actuation interface: one PWM output driven by a 0..100
// level. Platform providers supply the PWM channel.
package hal

import (
	"sync"

	"ledserial-go/errcode"
	"ledserial-go/types"
	"ledserial-go/x/mathx"
)

// MaxLevel is the full-on actuation level.
const MaxLevel = 100

// PWM is a single configured channel. Set takes a compare value in 0..top.
type PWM interface {
	Configure(freqHz uint64, top uint16) error
	Set(duty uint16)
}

// Output maps actuation levels onto a PWM channel.
type Output struct {
	mu        sync.Mutex
	pwm       PWM
	info      types.PWMInfo
	top       uint16
	activeLow bool
	level     uint8
	duty      uint16

	// OnChange, when set, sees every level change after it is applied.
	OnChange func(types.PWMValue)
}

// NewOutput configures pwm and drives it inactive.
func NewOutput(pwm PWM, cfg types.PWMConfig) (*Output, error) {
	if pwm == nil || cfg.Top == 0 {
		return nil, errcode.New(errcode.InvalidArgument, "hal_output", "pwm channel and top required")
	}
	if err := pwm.Configure(cfg.FreqHz, cfg.Top); err != nil {
		return nil, errcode.Wrap(errcode.Error, "pwm_configure", err)
	}
	o := &Output{
		pwm:       pwm,
		top:       cfg.Top,
		activeLow: cfg.ActiveLow,
		info: types.PWMInfo{
			Pin:       cfg.Pin,
			FreqHz:    cfg.FreqHz,
			Top:       cfg.Top,
			ActiveLow: cfg.ActiveLow,
		},
	}
	if d, ok := pwm.(interface{ Describe(*types.PWMInfo) }); ok {
		d.Describe(&o.info)
	}
	o.pwm.Set(o.toPhys(0))
	return o, nil
}

// duty for level: 0 is fully inactive, 1..100 spread monotonically over 1..top.
func (o *Output) dutyFor(level uint8) uint16 {
	level = mathx.Clamp(level, 0, MaxLevel)
	if level == 0 {
		return 0
	}
	return mathx.MapU16(uint16(level), 1, MaxLevel, 1, o.top)
}

func (o *Output) toPhys(duty uint16) uint16 {
	if !o.activeLow {
		return duty
	}
	return o.top - duty
}

// SetLevel drives the output at level (clamped to 0..100).
func (o *Output) SetLevel(level uint8) {
	level = mathx.Clamp(level, 0, MaxLevel)
	duty := o.dutyFor(level)

	o.mu.Lock()
	changed := level != o.level || duty != o.duty
	o.level, o.duty = level, duty
	o.pwm.Set(o.toPhys(duty))
	cb := o.OnChange
	o.mu.Unlock()

	if changed && cb != nil {
		cb(types.PWMValue{Level: level, Duty: duty})
	}
}

// Off drives the output inactive.
func (o *Output) Off() { o.SetLevel(0) }

// Level is the last level applied.
func (o *Output) Level() uint8 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.level
}

func (o *Output) Info() types.PWMInfo { return o.info }
