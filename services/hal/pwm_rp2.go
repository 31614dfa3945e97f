//go:build rp2040 || rp2350

package hal

import (
	"machine"

	"ledserial-go/errcode"
	"ledserial-go/types"
	"ledserial-go/x/timex"
)

// Local interface to avoid depending on an unexported concrete type in machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

// RP2PWM drives one pin's slice channel.
type RP2PWM struct {
	pin   machine.Pin
	slice uint8
	ctrl  pwmCtrl
	ch    uint8
	top   uint16
	hwTop uint32
}

// NewRP2PWM resolves the slice for pin. Configure must be called before Set.
func NewRP2PWM(pin int) (*RP2PWM, error) {
	p := machine.Pin(pin)
	slice, err := machine.PWMPeripheral(p)
	if err != nil {
		return nil, errcode.New(errcode.InvalidArgument, "pwm", "pin has no pwm slice")
	}
	return &RP2PWM{pin: p, slice: slice, ctrl: pwmGroupBySlice(slice)}, nil
}

func (p *RP2PWM) Configure(freqHz uint64, top uint16) error {
	if err := p.ctrl.Configure(machine.PWMConfig{Period: timex.PeriodFromHz(uint32(freqHz))}); err != nil {
		return err
	}
	ch, err := p.ctrl.Channel(p.pin)
	if err != nil {
		return err
	}
	p.ch = ch
	p.top = max(top, 1)
	p.hwTop = p.ctrl.Top()
	return nil
}

// Set scales duty from 0..top onto the slice's hardware top.
func (p *RP2PWM) Set(duty uint16) {
	if p.hwTop == 0 {
		return
	}
	duty = min(duty, p.top)
	p.ctrl.Set(p.ch, uint32(duty)*p.hwTop/uint32(p.top))
}

// Describe fills slice and channel details.
func (p *RP2PWM) Describe(info *types.PWMInfo) {
	info.Slice = int(p.slice)
	info.Channel = "A"
	if p.ch == 1 {
		info.Channel = "B"
	}
}
