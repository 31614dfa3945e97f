//go:build !(rp2040 || rp2350)

// Command ledsim runs the LED console firmware on the host: stdin/stdout is
// the serial link, a file is the log EEPROM and the LED is simulated.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"ledserial-go/cmdbuf"
	"ledserial-go/cmdlog"
	"ledserial-go/firmware"
	"ledserial-go/pagestore"
	"ledserial-go/services/config"
	"ledserial-go/services/console"
	"ledserial-go/services/hal"
	"ledserial-go/types"
	"ledserial-go/x/fmtx"
	"ledserial-go/x/logx"
	"ledserial-go/x/shmring"
)

var (
	device   string
	store    string
	logLevel string
	logJSON  string
	noEcho   bool

	rootCmd = &cobra.Command{
		Use:           "ledsim",
		Short:         "Run the serial LED console on the host",
		Long:          "ledsim reads commands from stdin, writes replies to stdout and keeps the command log in an image file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSim,
	}

	logCmd = &cobra.Command{
		Use:   "log",
		Short: "Print the command log stored in an image file",
		RunE:  runLog,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&device, "device", "host", "embedded config to use")
	pf.StringVar(&store, "store", "ledsim.img", "command log image file")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&logJSON, "log-json", "", "also write JSON logs to this file")
	rootCmd.Flags().BoolVar(&noEcho, "no-echo", false, "do not echo typed characters")
	rootCmd.AddCommand(logCmd)
}

// simPWM logs every compare value so the LED can be watched at debug level.
type simPWM struct {
	hal.FakePWM
}

func (p *simPWM) Set(duty uint16) {
	p.FakePWM.Set(duty)
	logx.Debug("led", "duty", duty)
}

// stdioPort reads from the stdin ring and writes to stdout.
type stdioPort struct {
	*shmring.Ring
	io.Writer
}

func setupLogging() (func() error, error) {
	return logx.Setup(logx.Options{Level: logLevel, JSONFile: logJSON})
}

// pump copies stdin into ring until EOF or ctx ends.
func pump(ctx context.Context, r io.Reader, ring *shmring.Ring) {
	defer ring.CloseWrite()
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := ring.WriteContext(ctx, buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func runSim(cmd *cobra.Command, _ []string) error {
	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx = context.WithValue(ctx, config.CtxDeviceKey, device)

	ring := shmring.New(1024)
	var f *pagestore.File
	defer func() {
		if f != nil {
			_ = f.Close()
		}
	}()

	board := firmware.Board{
		Open: func(cfg types.Config) (firmware.Platform, error) {
			var err error
			f, err = pagestore.OpenFile(store, cfg.Log.Pages, cfg.Log.PageSize)
			if err != nil {
				return firmware.Platform{}, err
			}
			go pump(ctx, cmd.InOrStdin(), ring)
			return firmware.Platform{
				Port:  stdioPort{Ring: ring, Writer: cmd.OutOrStdout()},
				Store: f,
				PWM:   &simPWM{},
			}, nil
		},
	}
	if noEcho {
		board.Adjust = func(cfg *types.Config) { cfg.Console.Echo = false }
	}

	logx.Info("simulator starting", "device", device, "store", store)
	err = firmware.Run(ctx, board)
	switch {
	case errors.Is(err, console.ErrExit), errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
		return nil
	default:
		return err
	}
}

func runLog(cmd *cobra.Command, _ []string) error {
	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()
	cfg, err := config.Load(device)
	if err != nil {
		return err
	}

	f, err := pagestore.OpenFile(store, cfg.Log.Pages, cfg.Log.PageSize)
	if err != nil {
		return err
	}
	defer f.Close()

	l, err := cmdlog.Open(f, cmdbuf.LineCap)
	if err != nil {
		return err
	}
	it := l.Replay()
	for i := 1; ; i++ {
		rec, ok := it.Next()
		if !ok {
			break
		}
		fmtx.Fprintf(cmd.OutOrStdout(), "%3d  %s\n", i, rec)
	}
	return it.Err()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("ledsim", "err", err)
		os.Exit(1)
	}
}
