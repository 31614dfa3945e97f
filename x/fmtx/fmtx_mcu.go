//go:build rp2040 || rp2350

package fmtx

import (
	"io"

	"ledserial-go/x/strconvx"
)

// Signatures match fmt. Supported verbs: %s %q %d %v %t %%, with an optional
// width for %s/%d. Enough for console replies; keeps fmt out of the image.

func Sprintf(format string, a ...any) string {
	var b builder
	b.format(format, a)
	return string(b.buf)
}

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return io.WriteString(w, Sprintf(format, a...))
}

func Fprint(w io.Writer, a ...any) (int, error) {
	return io.WriteString(w, Sprint(a...))
}

func Errorf(format string, a ...any) error {
	return &stringError{Sprintf(format, a...)}
}

func Sprint(a ...any) string {
	var b builder
	for i, v := range a {
		if i > 0 {
			b.buf = append(b.buf, ' ')
		}
		b.value(v, 'v')
	}
	return string(b.buf)
}

type stringError struct{ s string }

func (e *stringError) Error() string { return e.s }

type builder struct{ buf []byte }

func (b *builder) value(v any, verb byte) {
	switch x := v.(type) {
	case string:
		if verb == 'q' {
			b.quote(x)
			return
		}
		b.buf = append(b.buf, x...)
	case []byte:
		b.buf = append(b.buf, x...)
	case error:
		b.buf = append(b.buf, x.Error()...)
	case bool:
		if x {
			b.buf = append(b.buf, "true"...)
		} else {
			b.buf = append(b.buf, "false"...)
		}
	case interface{ String() string }:
		b.buf = append(b.buf, x.String()...)
	default:
		if n, ok := toInt64(v); ok {
			b.buf = append(b.buf, strconvx.FormatInt(n, 10)...)
			return
		}
		b.buf = append(b.buf, "<?>"...)
	}
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		return int64(t), true
	}
	return 0, false
}

func (b *builder) format(format string, args []any) {
	ai := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.buf = append(b.buf, c)
			continue
		}
		i++
		if i >= len(format) {
			return
		}
		if format[i] == '%' {
			b.buf = append(b.buf, '%')
			continue
		}
		width := 0
		for i < len(format) && '0' <= format[i] && format[i] <= '9' {
			width = width*10 + int(format[i]-'0')
			i++
		}
		if i >= len(format) || ai >= len(args) {
			return
		}
		start := len(b.buf)
		b.value(args[ai], format[i])
		ai++
		if pad := width - (len(b.buf) - start); pad > 0 {
			b.buf = append(b.buf, make([]byte, pad)...)
			copy(b.buf[start+pad:], b.buf[start:len(b.buf)-pad])
			for j := start; j < start+pad; j++ {
				b.buf[j] = ' '
			}
		}
	}
}

func (b *builder) quote(s string) {
	b.buf = append(b.buf, '"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '"':
			b.buf = append(b.buf, '\\', s[i])
		case '\n':
			b.buf = append(b.buf, '\\', 'n')
		default:
			b.buf = append(b.buf, s[i])
		}
	}
	b.buf = append(b.buf, '"')
}
