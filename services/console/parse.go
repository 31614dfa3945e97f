package console

import (
	"strings"

	"ledserial-go/errcode"
	"ledserial-go/x/fmtx"
	"ledserial-go/x/strconvx"
)

// maxTokens is a command word plus up to two arguments; extra tokens are ignored.
const maxTokens = 3

// Command is one case-folded, tokenised line.
type Command struct {
	Name string
	Args []string
}

// Parse folds case and splits line on whitespace into at most three
// tokens. Quotes, backslashes and '#' have no special meaning.
func Parse(line string) Command {
	toks := strings.Fields(strings.ToLower(line))
	if len(toks) == 0 {
		return Command{}
	}
	if len(toks) > maxTokens {
		toks = toks[:maxTokens]
	}
	return Command{Name: toks[0], Args: toks[1:]}
}

// Arg returns argument i, or MissingArgument naming what was expected.
func (c Command) Arg(i int, what string) (string, error) {
	if i >= len(c.Args) {
		return "", errcode.New(errcode.MissingArgument, c.Name, "expected "+what)
	}
	return c.Args[i], nil
}

// Int parses argument i as a decimal integer.
func (c Command) Int(i int, what string) (int, error) {
	s, err := c.Arg(i, what)
	if err != nil {
		return 0, err
	}
	v, err := strconvx.Atoi(s)
	if err != nil {
		return 0, errcode.New(errcode.InvalidArgument, c.Name, fmtx.Sprintf("%s must be an integer, got %q", what, s))
	}
	return v, nil
}
