//go:build rp2040 || rp2350

// Command boardtest is a bring-up check for the LED console board. It fades
// the LED, replays the command log from the EEPROM (a blank device gets an
// empty header) and reports on UART0.
package main

import (
	"time"

	"ledserial-go/cmdbuf"
	"ledserial-go/cmdlog"
	"ledserial-go/firmware"
	"ledserial-go/services/config"
	"ledserial-go/services/console"
	"ledserial-go/services/hal"
	"ledserial-go/x/fmtx"
	"ledserial-go/x/ramp"
)

// ---------- Configuration ----------

const (
	fadeUp   = 1500 * time.Millisecond
	fadeDown = 1500 * time.Millisecond
	fadeStep = 50
	dwell    = 500 * time.Millisecond

	// Cycles: 0 = loop forever
	cyclesToRun = 3
)

// ---------- Output to console + UART ----------

type out struct {
	port console.Port
}

func (o *out) printf(format string, a ...any) {
	line := fmtx.Sprintf(format, a...)
	print(line)
	if o.port != nil {
		_, _ = o.port.Write([]byte(line))
	}
}

// ---------- Checks ----------

func sleep(d time.Duration) bool { time.Sleep(d); return true }

func fade(led *hal.Output) {
	ramp.Linear(0, hal.MaxLevel, fadeUp, fadeStep, sleep, led.SetLevel)
	time.Sleep(dwell)
	ramp.Linear(hal.MaxLevel, 0, fadeDown, fadeStep, sleep, led.SetLevel)
}

func checkLog(o *out, log *cmdlog.Log) bool {
	it := log.Replay()
	n := 0
	for {
		if _, ok := it.Next(); !ok {
			break
		}
		n++
	}
	if err := it.Err(); err != nil {
		o.printf("[FAIL] log replay: %v\r\n", err)
		return false
	}
	o.printf("log: %d of %d slots used, next=%d\r\n", n, log.Capacity(), log.Next())
	return true
}

func flashPassFail(led *hal.Output, pass bool) {
	if pass {
		// Double short
		for i := 0; i < 2; i++ {
			led.SetLevel(hal.MaxLevel)
			time.Sleep(120 * time.Millisecond)
			led.Off()
			time.Sleep(200 * time.Millisecond)
		}
		return
	}
	// Single long
	led.SetLevel(hal.MaxLevel)
	time.Sleep(400 * time.Millisecond)
	led.Off()
	time.Sleep(200 * time.Millisecond)
}

// ---------- Main ----------

func main() {
	time.Sleep(1500 * time.Millisecond)
	println("[boardtest] boot")

	cfg, err := config.Load("pico")
	if err != nil {
		println("[boardtest] config:", err.Error())
		return
	}
	p, err := firmware.NewRP2Platform(cfg)
	if err != nil {
		println("[boardtest] platform:", err.Error())
		return
	}
	o := &out{port: p.Port}

	led, err := hal.NewOutput(p.PWM, cfg.PWM)
	if err != nil {
		o.printf("[FAIL] pwm: %v\r\n", err)
		return
	}
	info := led.Info()
	o.printf("pwm: pin=%d slice=%d channel=%s freq=%dHz top=%d\r\n", info.Pin, info.Slice, info.Channel, info.FreqHz, info.Top)

	for cycle := 1; ; cycle++ {
		o.printf("=== boardtest: cycle %d ===\r\n", cycle)
		fade(led)

		pass := true
		log, err := cmdlog.Open(p.Store, cmdbuf.LineCap)
		if err != nil {
			o.printf("[FAIL] log open: %v\r\n", err)
			pass = false
		} else {
			pass = checkLog(o, log)
		}
		if pass {
			o.printf("[PASS] led fade and log read\r\n")
		}
		flashPassFail(led, pass)

		if cyclesToRun > 0 && cycle >= cyclesToRun {
			o.printf("completed %d cycles; halting\r\n", cycle)
			return
		}
	}
}
