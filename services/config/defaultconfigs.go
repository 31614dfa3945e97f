package config

// Embedded configuration, keyed by device ID (the value placed in ctx under
// CtxDeviceKey). Fields left out take their Defaults value.

// Raspberry Pi Pico: onboard LED on GP25, UART0 on GP0/GP1, AT24C32 on I2C0
// (GP4/GP5).
const cfgPico = `{
  "console": {
    "prompt": "\ncommand> ",
    "echo": true,
    "baud": 115200,
    "tx_pin": 0,
    "rx_pin": 1
  },
  "actuator": {
    "max_blink_hz": 33,
    "brightness_tick_ms": 10
  },
  "log": {
    "pages": 64,
    "page_size": 64,
    "i2c_addr": 80,
    "sda_pin": 4,
    "scl_pin": 5,
    "i2c_hz": 400000
  },
  "pwm": {
    "pin": 25,
    "freq_hz": 1000,
    "top": 1000,
    "active_low": false
  },
  "heartbeat": {
    "interval": 30
  }
}`

// Host simulator: stdin/stdout, file-backed log.
const cfgHost = `{
  "console": {
    "echo": false
  },
  "log": {
    "pages": 33,
    "page_size": 64
  },
  "heartbeat": {
    "interval": 0
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"host": []byte(cfgHost),
}
