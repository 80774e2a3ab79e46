package console_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/FlashpointProject/bluezip/internal/console"
)

func TestColoredOutputRespectsToggle(t *testing.T) {
	var buf bytes.Buffer
	c := console.New(&buf, console.WithColor(true))
	c.Successf("rev %d", 1)
	if got := buf.String(); got != "\x1b[32mrev 1\x1b[0m\n" {
		t.Fatalf("unexpected colored output %q", got)
	}

	buf.Reset()
	plain := console.New(&buf, console.WithColor(false))
	plain.Warnf("careful")
	if got := buf.String(); got != "careful\n" {
		t.Fatalf("unexpected plain output %q", got)
	}
}

func TestConfirmParsesResponses(t *testing.T) {
	cases := []struct {
		input      string
		defaultYes bool
		want       bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"maybe\nno\n", true, false},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		c := console.New(&buf, console.WithColor(false), console.WithInput(strings.NewReader(tc.input)))
		if got := c.Confirm("Proceed?", tc.defaultYes); got != tc.want {
			t.Fatalf("Confirm(%q, default=%v) = %v, want %v", tc.input, tc.defaultYes, got, tc.want)
		}
	}
}

func TestConfirmRepromptsOnGarbage(t *testing.T) {
	var buf bytes.Buffer
	c := console.New(&buf, console.WithColor(false), console.WithInput(strings.NewReader("huh\ny\n")))
	if !c.Confirm("Delete 2 files?", false) {
		t.Fatal("expected eventual yes")
	}
	if !strings.Contains(buf.String(), "Please respond") {
		t.Fatalf("expected reprompt message, got %q", buf.String())
	}
}
