package console

import (
	"bytes"
	"context"

	"ledserial-go/cmdbuf"
	"ledserial-go/x/logx"
)

// DefaultPrompt is written before every line read.
const DefaultPrompt = "\ncommand> "

type CollectorOptions struct {
	Prompt string
	Echo   bool
}

// Collector reads operator lines and hands each one to the interpreter
// through the shared buffer, one at a time.
type Collector struct {
	port   Port
	reader *LineReader
	buf    *cmdbuf.Buffer
	prompt []byte
}

func NewCollector(port Port, buf *cmdbuf.Buffer, opts CollectorOptions) *Collector {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &Collector{
		port:   port,
		reader: NewLineReader(port, opts.Echo),
		buf:    buf,
		prompt: []byte(prompt),
	}
}

// Run loops until ctx ends or the port fails. It returns the port error
// (io.EOF when input closes) or ctx.Err().
func (c *Collector) Run(ctx context.Context) error {
	logx.Info("input collector started")
	for {
		if _, err := c.port.Write(c.prompt); err != nil {
			return err
		}
		line, truncated, err := c.reader.ReadLine(ctx)
		if err != nil {
			return err
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if truncated {
			logx.Warn("line truncated", "max", cmdbuf.LineCap)
		}
		if _, err := c.buf.Publish(ctx, line); err != nil {
			return err
		}
		if err := c.buf.AwaitConsumed(ctx); err != nil {
			return err
		}
	}
}
