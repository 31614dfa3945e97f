package console

import (
	"context"
	"errors"
	"io"

	"ledserial-go/cmdbuf"
	"ledserial-go/cmdlog"
	"ledserial-go/errcode"
	"ledserial-go/services/actuator"
	"ledserial-go/types"
	"ledserial-go/x/fmtx"
	"ledserial-go/x/logx"
)

// ErrExit is returned by Run after an exit command has been handled.
var ErrExit error = errcode.Terminated

// DefaultMaxBlinkHz is the fastest blink the output can follow.
const DefaultMaxBlinkHz = 33

// Actuator is the part of the actuator supervisor the interpreter drives.
type Actuator interface {
	Blink(hz, n uint32)
	Brightness(level uint8)
	ResetBrightness()
	ResetFrequency()
	Off()
	State() *actuator.State
}

type InterpreterOptions struct {
	// MaxBlinkHz defaults to DefaultMaxBlinkHz. Faster requests are
	// accepted with a warning.
	MaxBlinkHz int
}

// Interpreter consumes lines from the shared buffer, applies them to the
// actuator and appends them to the command log.
type Interpreter struct {
	buf   *cmdbuf.Buffer
	act   Actuator
	log   *cmdlog.Log
	out   io.Writer
	maxHz int
}

func NewInterpreter(buf *cmdbuf.Buffer, act Actuator, log *cmdlog.Log, out io.Writer, opts InterpreterOptions) *Interpreter {
	maxHz := opts.MaxBlinkHz
	if maxHz <= 0 {
		maxHz = DefaultMaxBlinkHz
	}
	return &Interpreter{buf: buf, act: act, log: log, out: out, maxHz: maxHz}
}

// Result describes how one line was handled.
type Result struct {
	Command string
	// Err is a rejection, a failed query, or ErrExit.
	Err error
	// Warn is set when the command was applied but flagged.
	Warn error
	// Logged reports a successful log append; LogErr holds the failure.
	Logged bool
	LogErr error
}

// Exit reports whether the line was an exit command.
func (r Result) Exit() bool { return errcode.Is(r.Err, errcode.Terminated) }

// Run handles lines until ctx ends or an exit command arrives.
func (in *Interpreter) Run(ctx context.Context) error {
	logx.Info("command interpreter started")
	for {
		var res Result
		err := in.buf.Consume(ctx, func(line []byte) error {
			res = in.Handle(line)
			return nil
		})
		if err != nil {
			return err
		}
		if res.Exit() {
			return ErrExit
		}
	}
}

type handler func(in *Interpreter, c Command) (res Result)

var handlers = map[string]handler{
	"blink":      (*Interpreter).blink,
	"pisca":      (*Interpreter).blink,
	"brightness": (*Interpreter).brightness,
	"brilho":     (*Interpreter).brightness,
	"brilha":     (*Interpreter).brightness,
	"print":      (*Interpreter).print,
	"mostrar":    (*Interpreter).print,
	"reset":      (*Interpreter).reset,
	"exit":       (*Interpreter).exit,
	"sair":       (*Interpreter).exit,
	"help":       (*Interpreter).help,
	"ajuda":      (*Interpreter).help,
}

// Handle runs one line to completion: parse, dispatch, reply, log. Every
// non-blank line is logged except "reset log".
func (in *Interpreter) Handle(line []byte) Result {
	cmd := Parse(string(line))
	if cmd.Name == "" {
		return Result{}
	}

	var res Result
	skipLog := false
	switch h, ok := handlers[cmd.Name]; {
	case !ok:
		res.Err = errcode.New(errcode.UnknownCommand, cmd.Name, "")
	default:
		res = h(in, cmd)
		skipLog = cmd.Name == "reset" && len(cmd.Args) > 0 && cmd.Args[0] == "log" && res.Err == nil
	}
	res.Command = cmd.Name

	in.report(res)
	if !skipLog {
		in.append(line, &res)
	}
	return res
}

func (in *Interpreter) append(line []byte, res *Result) {
	if in.log == nil {
		return
	}
	if err := in.log.Append(line); err != nil {
		res.LogErr = err
		logx.Error("log append failed", "command", res.Command, "err", err)
		in.println("warning: command not logged")
		return
	}
	res.Logged = true
}

func (in *Interpreter) report(res Result) {
	if res.Warn != nil {
		logx.Warn("command flagged", "command", res.Command, "err", res.Warn)
	}
	if res.Err == nil || res.Exit() {
		return
	}
	logx.Info("command rejected", "command", res.Command, "err", res.Err)
	switch errcode.Of(res.Err) {
	case errcode.UnknownCommand:
		in.println(`Enter a valid command (type "help/ajuda" for more)`)
	case errcode.StorageFailure:
		in.println("error: command log unavailable")
	default:
		var e *errcode.E
		if errors.As(res.Err, &e) && e.Msg != "" {
			in.println("error: " + e.Msg)
		} else {
			in.println("error: " + res.Err.Error())
		}
	}
}

func (in *Interpreter) println(s string) {
	_, _ = io.WriteString(in.out, s+"\n")
}

func (in *Interpreter) blink(c Command) Result {
	hz, err := c.Int(0, "frequency")
	if err != nil {
		return Result{Err: err}
	}
	n, err := c.Int(1, "count")
	if err != nil {
		return Result{Err: err}
	}
	if hz <= 0 {
		return Result{Err: errcode.New(errcode.OutOfRange, c.Name, "frequency must be greater than 0")}
	}
	if n < 0 {
		return Result{Err: errcode.New(errcode.OutOfRange, c.Name, "count must not be negative")}
	}

	var res Result
	if hz > in.maxHz {
		res.Warn = errcode.New(errcode.UnsupportedValue, c.Name, fmtx.Sprintf("%d Hz above supported %d Hz", hz, in.maxHz))
		in.println("WARNING: requested frequency is above the supported frequency")
	}
	in.act.Blink(uint32(hz), uint32(n))
	return res
}

func (in *Interpreter) brightness(c Command) Result {
	v, err := c.Int(0, "brightness")
	if err != nil {
		return Result{Err: err}
	}
	if v < 0 || v > 100 {
		return Result{Err: errcode.New(errcode.OutOfRange, c.Name, "enter a valid brightness (between 0 and 100)")}
	}
	in.act.Brightness(uint8(v))
	return Result{}
}

func (in *Interpreter) print(c Command) Result {
	what, err := c.Arg(0, "brightness, freq or log")
	if err != nil {
		return Result{Err: err}
	}
	st := in.act.State()
	switch what {
	case "brightness", "brilho":
		if st.Mode() == types.ModeBrightness {
			in.println(fmtx.Sprintf("Current LED brightness: %d%%", st.Level()))
		} else {
			in.println("LED is not set to a fixed brightness")
		}
	case "freq":
		if st.Mode() == types.ModeBlinking {
			in.println(fmtx.Sprintf("Last LED frequency: %d", st.FreqHz()))
		} else {
			in.println("LED is not blinking")
		}
	case "log":
		return Result{Err: in.printLog()}
	default:
		return Result{Err: errcode.New(errcode.InvalidArgument, c.Name, "cannot print "+what)}
	}
	return Result{}
}

func (in *Interpreter) printLog() error {
	if in.log == nil {
		return nil
	}
	it := in.log.Replay()
	for {
		rec, ok := it.Next()
		if !ok {
			break
		}
		in.println(string(rec))
	}
	return it.Err()
}

func (in *Interpreter) reset(c Command) Result {
	what, err := c.Arg(0, "brightness, freq or log")
	if err != nil {
		return Result{Err: err}
	}
	switch what {
	case "brightness", "brilho":
		in.act.ResetBrightness()
	case "freq":
		in.act.ResetFrequency()
	case "log":
		if in.log != nil {
			if err := in.log.Reset(); err != nil {
				return Result{Err: err}
			}
		}
	default:
		return Result{Err: errcode.New(errcode.InvalidArgument, c.Name, "cannot reset "+what)}
	}
	return Result{}
}

func (in *Interpreter) exit(Command) Result {
	in.act.Off()
	in.println("Exiting")
	return Result{Err: ErrExit}
}

const helpText = `Valid commands:
	blink/pisca <hz> <count>          : blink the LED count times at hz
	brightness/brilho <0..100>        : hold the LED at a fixed brightness
	print/mostrar <brightness|freq|log> : show a setting or the command log
	reset <brightness|freq|log>       : clear a setting or the command log
	exit/sair                         : turn the LED off and quit
	help/ajuda                        : show this list`

func (in *Interpreter) help(Command) Result {
	in.println(helpText)
	return Result{}
}
