//go:build rp2040 || rp2350

package main

import (
	"context"
	"errors"
	"time"

	"ledserial-go/firmware"
	"ledserial-go/services/config"
	"ledserial-go/services/console"
	"ledserial-go/x/logx"
)

const device = "pico"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, device)
	err := firmware.Run(ctx, firmware.Board{Open: firmware.NewRP2Platform})
	if errors.Is(err, console.ErrExit) {
		logx.Info("exit requested, output off")
	} else {
		logx.Error("firmware stopped", "err", err)
	}
	halt()
}

// halt parks the core; there is nothing to return to.
func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
