//go:build rp2040 || rp2350

package firmware

import (
	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"ledserial-go/pagestore"
	"ledserial-go/services/hal"
	"ledserial-go/types"
)

// NewRP2Platform configures UART0 for the console, I2C0 for the AT24Cxx log
// store and a PWM slice for the LED.
func NewRP2Platform(cfg types.Config) (Platform, error) {
	u := uartx.UART0
	if err := u.Configure(uartx.UARTConfig{
		BaudRate: cfg.Console.Baud,
		TX:       machine.Pin(cfg.Console.TXPin),
		RX:       machine.Pin(cfg.Console.RXPin),
	}); err != nil {
		return Platform{}, err
	}

	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		SDA:       machine.Pin(cfg.Log.SDAPin),
		SCL:       machine.Pin(cfg.Log.SCLPin),
		Frequency: cfg.Log.I2CHz,
	}); err != nil {
		return Platform{}, err
	}
	store := pagestore.NewEEPROM(i2c, pagestore.EEPROMConfig{
		Address:  cfg.Log.I2CAddr,
		Pages:    cfg.Log.Pages,
		PageSize: cfg.Log.PageSize,
	})

	pwm, err := hal.NewRP2PWM(cfg.PWM.Pin)
	if err != nil {
		return Platform{}, err
	}
	return Platform{Port: u, Store: store, PWM: pwm}, nil
}
