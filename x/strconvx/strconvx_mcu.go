//go:build rp2040 || rp2350

package strconvx

// Minimal, allocation-aware helpers with strconv signatures.
// Bases 2..36 only; bitSize 0 or 64 is treated as int64.

func Itoa(i int) string { return FormatInt(int64(i), 10) }

func Atoi(s string) (int, error) {
	v, err := ParseInt(s, 10, 0)
	return int(v), err
}

func FormatInt(i int64, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	if i == 0 {
		return "0"
	}
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	neg := i < 0
	u := uint64(i)
	if neg {
		u = uint64(-i)
	}
	var buf [65]byte
	n := len(buf)
	for u > 0 {
		n--
		buf[n] = digits[u%uint64(base)]
		u /= uint64(base)
	}
	if neg {
		n--
		buf[n] = '-'
	}
	return string(buf[n:])
}

type numError struct{ s string }

func (e numError) Error() string { return "strconvx: parsing " + quote(e.s) + ": invalid syntax" }

func quote(s string) string { return "\"" + s + "\"" }

func ParseInt(s string, base, bitSize int) (int64, error) {
	orig := s
	if base < 2 || base > 36 {
		base = 10
	}
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if len(s) == 0 {
		return 0, numError{orig}
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d byte
		switch {
		case '0' <= c && c <= '9':
			d = c - '0'
		case 'a' <= c && c <= 'z':
			d = c - 'a' + 10
		case 'A' <= c && c <= 'Z':
			d = c - 'A' + 10
		default:
			return 0, numError{orig}
		}
		if int(d) >= base {
			return 0, numError{orig}
		}
		v = v*uint64(base) + uint64(d)
		if v > 1<<63 {
			return 0, numError{orig}
		}
	}
	if neg {
		return -int64(v), nil
	}
	if v == 1<<63 {
		return 0, numError{orig}
	}
	_ = bitSize
	return int64(v), nil
}
