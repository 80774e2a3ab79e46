// Package console provides the user-facing output sink for bluezip commands.
// Components receive a Console rather than writing to process-wide state, so
// color handling is decided once at startup.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// Console writes colored status output and runs interactive confirmations.
type Console struct {
	out      io.Writer
	in       *bufio.Reader
	colorize bool
}

// Option customizes console construction.
type Option func(*Console)

// WithColor forces color on or off regardless of terminal detection.
func WithColor(enabled bool) Option {
	return func(c *Console) {
		c.colorize = enabled
	}
}

// WithInput overrides the reader used for interactive prompts.
func WithInput(r io.Reader) Option {
	return func(c *Console) {
		c.in = bufio.NewReader(r)
	}
}

// New builds a console writing to out. Color defaults to on when out is a
// terminal.
func New(out io.Writer, opts ...Option) *Console {
	c := &Console{
		out:      out,
		in:       bufio.NewReader(os.Stdin),
		colorize: writerIsTerminal(out),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Printf writes plain output.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Labelf writes a left-justified progress label without a trailing newline,
// so the outcome of the submission can complete the line.
func (c *Console) Labelf(format string, args ...any) {
	fmt.Fprintf(c.out, "%-80s", fmt.Sprintf(format, args...))
}

// Successf writes a green status line.
func (c *Console) Successf(format string, args ...any) {
	c.colored(ansiGreen, format, args...)
}

// Warnf writes a yellow status line.
func (c *Console) Warnf(format string, args ...any) {
	c.colored(ansiYellow, format, args...)
}

// Errorf writes a red status line.
func (c *Console) Errorf(format string, args ...any) {
	c.colored(ansiRed, format, args...)
}

// Confirm asks a y/n question and blocks for an answer. An empty response
// selects the default; anything unrecognized re-prompts.
func (c *Console) Confirm(question string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	for {
		fmt.Fprintf(c.out, "%s %s ", question, hint)
		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			return defaultYes
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return defaultYes
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		fmt.Fprintln(c.out, `Please respond with "y" or "n".`)
	}
}

func (c *Console) colored(color, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if c.colorize {
		fmt.Fprintf(c.out, "%s%s%s\n", color, text, ansiReset)
		return
	}
	fmt.Fprintln(c.out, text)
}

func writerIsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
