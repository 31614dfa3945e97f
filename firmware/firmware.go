// Package firmware wires the console, actuator, command log and support
// services together for one board.
package firmware

import (
	"context"
	"errors"

	"ledserial-go/bus"
	"ledserial-go/cmdbuf"
	"ledserial-go/cmdlog"
	"ledserial-go/pagestore"
	"ledserial-go/services/actuator"
	"ledserial-go/services/config"
	"ledserial-go/services/console"
	"ledserial-go/services/hal"
	"ledserial-go/services/heartbeat"
	"ledserial-go/types"
	"ledserial-go/x/logx"
	"ledserial-go/x/timex"
)

var (
	topicPWMInfo  = bus.T("hal/pwm/info")
	topicPWMValue = bus.T("hal/pwm/value")
	topicState    = bus.T("firmware/state")
)

// Platform supplies the board collaborators.
type Platform struct {
	Port  console.Port
	Store pagestore.Store
	PWM   hal.PWM
}

// Board builds a Platform once the configuration is known.
type Board struct {
	// Open is called with the loaded configuration.
	Open func(cfg types.Config) (Platform, error)
	// Adjust, when set, edits the configuration before it is published.
	Adjust func(cfg *types.Config)
}

const banner = "ledserial ready, type help/ajuda for commands\n"

// Run loads the configuration for the device in ctx (config.CtxDeviceKey),
// opens the board, starts every task and blocks until the operator exits,
// the port closes, or ctx ends. An exit command yields console.ErrExit.
func Run(ctx context.Context, board Board) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b := bus.NewBus(16)
	conn := b.NewConnection("firmware")
	setState := func(level, status string) {
		conn.Publish(conn.NewMessage(topicState, types.ServiceState{Level: level, Status: status, TS: timex.NowMs()}, true))
	}
	setState("starting", "boot")

	cs := config.NewConfigService()
	cs.Adjust = board.Adjust
	cfg, err := cs.Start(ctx, b.NewConnection(cs.Name))
	if err != nil {
		setState("stopped", "config_error")
		return err
	}
	hb := &heartbeat.Service{}
	if err := hb.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		setState("stopped", "heartbeat_error")
		return err
	}

	p, err := board.Open(cfg)
	if err != nil {
		setState("stopped", "platform_error")
		return err
	}

	out, err := hal.NewOutput(p.PWM, cfg.PWM)
	if err != nil {
		setState("stopped", "pwm_error")
		return err
	}
	conn.Publish(conn.NewMessage(topicPWMInfo, out.Info(), true))
	out.OnChange = func(v types.PWMValue) {
		conn.Publish(conn.NewMessage(topicPWMValue, v, true))
	}

	// A log that cannot be opened disables persistence only.
	log, err := cmdlog.Open(p.Store, cmdbuf.LineCap)
	if err != nil {
		logx.Error("command log unavailable", "err", err)
	} else {
		logx.Info("command log open", "slots", log.Capacity(), "next", log.Next())
	}

	sup := actuator.New(ctx, out, actuator.Options{
		BrightnessTick: timex.Ms(cfg.Actuator.BrightnessTickMs),
		Conn:           conn,
	})
	buf := cmdbuf.New()
	col := console.NewCollector(p.Port, buf, console.CollectorOptions{
		Prompt: cfg.Console.Prompt,
		Echo:   cfg.Console.Echo,
	})
	in := console.NewInterpreter(buf, sup, log, p.Port, console.InterpreterOptions{
		MaxBlinkHz: cfg.Actuator.MaxBlinkHz,
	})

	_, _ = p.Port.Write([]byte(banner))
	setState("ready", "running")

	colErr := make(chan error, 1)
	inErr := make(chan error, 1)
	go func() { colErr <- col.Run(ctx) }()
	go func() { inErr <- in.Run(ctx) }()

	var result error
	select {
	case result = <-inErr:
		cancel()
		<-colErr
	case result = <-colErr:
		cancel()
		<-inErr
	case <-ctx.Done():
		result = ctx.Err()
		<-colErr
		<-inErr
	}

	sup.Off()
	setState("stopped", statusOf(result))
	logx.Info("firmware stopped", "reason", statusOf(result))
	return result
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, console.ErrExit):
		return "exit"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return err.Error()
	}
}
