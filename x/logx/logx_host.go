//go:build !(rp2040 || rp2350)

package logx

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	slogmulti "github.com/samber/slog-multi"
)

var (
	level   = new(slog.LevelVar)
	current atomic.Pointer[slog.Logger]
)

func init() {
	current.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Options selects where host logs go.
type Options struct {
	Level    string    // debug, info, warn, error; empty keeps the current level
	Writer   io.Writer // text output; nil means os.Stderr
	JSONFile string    // optional JSON-lines file, appended
}

// Setup installs a fanout of a text handler and, if requested, a JSON file handler.
// The returned func closes the JSON file.
func Setup(o Options) (func() error, error) {
	if err := SetLevel(o.Level); err != nil {
		return nil, err
	}
	w := o.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	handlers := []slog.Handler{slog.NewTextHandler(w, opts)}

	closeFn := func() error { return nil }
	if o.JSONFile != "" {
		f, err := os.OpenFile(o.JSONFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
		closeFn = f.Close
	}
	current.Store(slog.New(slogmulti.Fanout(handlers...)))
	return closeFn, nil
}

// SetLevel parses and applies a level name. Empty is a no-op.
func SetLevel(name string) error {
	if name == "" {
		return nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return err
	}
	level.Set(l)
	return nil
}

func Debug(msg string, kv ...any) { current.Load().Debug(msg, kv...) }
func Info(msg string, kv ...any)  { current.Load().Info(msg, kv...) }
func Warn(msg string, kv ...any)  { current.Load().Warn(msg, kv...) }
func Error(msg string, kv ...any) { current.Load().Error(msg, kv...) }
