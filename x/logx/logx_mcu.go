//go:build rp2040 || rp2350

package logx

import "ledserial-go/x/fmtx"

const (
	lvlDebug = iota
	lvlInfo
	lvlWarn
	lvlError
)

var minLevel = lvlInfo

// Options mirrors the host build; only Level is honoured on MCU.
type Options struct {
	Level string
}

func Setup(o Options) (func() error, error) {
	return func() error { return nil }, SetLevel(o.Level)
}

func SetLevel(name string) error {
	switch name {
	case "":
	case "debug", "DEBUG":
		minLevel = lvlDebug
	case "info", "INFO":
		minLevel = lvlInfo
	case "warn", "WARN":
		minLevel = lvlWarn
	case "error", "ERROR":
		minLevel = lvlError
	default:
		return fmtx.Errorf("unknown log level %q", name)
	}
	return nil
}

func Debug(msg string, kv ...any) { emit(lvlDebug, "Debug:", msg, kv) }
func Info(msg string, kv ...any)  { emit(lvlInfo, "Info:", msg, kv) }
func Warn(msg string, kv ...any)  { emit(lvlWarn, "Warn:", msg, kv) }
func Error(msg string, kv ...any) { emit(lvlError, "Error:", msg, kv) }

func emit(lvl int, tag, msg string, kv []any) {
	if lvl < minLevel {
		return
	}
	print(tag, " ", msg)
	for i := 0; i+1 < len(kv); i += 2 {
		print(" ", fmtx.Sprint(kv[i]), "=", fmtx.Sprint(kv[i+1]))
	}
	println()
}
