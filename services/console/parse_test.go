package console

import (
	"testing"

	"ledserial-go/errcode"
)

func TestParseFoldsAndSplits(t *testing.T) {
	c := Parse("  PISCA 5   3 ")
	if c.Name != "pisca" || len(c.Args) != 2 || c.Args[0] != "5" || c.Args[1] != "3" {
		t.Fatalf("cmd = %+v", c)
	}
}

func TestParseKeepsThreeTokens(t *testing.T) {
	c := Parse("blink 5 3 extra tokens")
	if len(c.Args) != 2 {
		t.Fatalf("args = %q", c.Args)
	}
}

func TestParseBlank(t *testing.T) {
	if c := Parse(" \t "); c.Name != "" {
		t.Fatalf("cmd = %+v", c)
	}
}

func TestParseIsPlainWhitespace(t *testing.T) {
	cases := []struct {
		line string
		name string
		args []string
	}{
		{"pisca 5 3 it's", "pisca", []string{"5", "3"}},
		{"brilho #40", "brilho", []string{"#40"}},
		{`pisca 5\ 3 2`, "pisca", []string{`5\`, "3"}},
		{`print "log`, "print", []string{`"log`}},
		{"brilho\t40", "brilho", []string{"40"}},
	}
	for _, tc := range cases {
		c := Parse(tc.line)
		if c.Name != tc.name || len(c.Args) != len(tc.args) {
			t.Fatalf("%q: cmd = %+v", tc.line, c)
		}
		for i := range tc.args {
			if c.Args[i] != tc.args[i] {
				t.Fatalf("%q: arg %d = %q, want %q", tc.line, i, c.Args[i], tc.args[i])
			}
		}
	}
}

func TestCommandIntErrors(t *testing.T) {
	c := Parse("brilho")
	if _, err := c.Int(0, "brightness"); !errcode.Is(err, errcode.MissingArgument) {
		t.Fatalf("missing: %v", err)
	}
	c = Parse("brilho abc")
	if _, err := c.Int(0, "brightness"); !errcode.Is(err, errcode.InvalidArgument) {
		t.Fatalf("invalid: %v", err)
	}
	c = Parse("brilho -7")
	if v, err := c.Int(0, "brightness"); err != nil || v != -7 {
		t.Fatalf("v=%d err=%v", v, err)
	}
}
