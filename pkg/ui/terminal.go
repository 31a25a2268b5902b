package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// Console writes operator-facing lines. Colors are used only when the
// output is a terminal. Quiet consoles drop everything but errors.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
	quiet bool
}

// NewConsole creates a console writing to out
func NewConsole(out io.Writer) *Console {
	color := false
	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Console{out: out, color: color}
}

// SetQuiet suppresses everything except errors
func (c *Console) SetQuiet(quiet bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quiet = quiet
}

// SetColor forces colors on or off
func (c *Console) SetColor(color bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.color = color
}

func (c *Console) println(important bool, paint func(string) string, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quiet && !important {
		return
	}
	if c.color && paint != nil {
		text = paint(text)
	}
	fmt.Fprintln(c.out, text)
}

// Printf prints a plain line
func (c *Console) Printf(format string, args ...interface{}) {
	c.println(false, nil, fmt.Sprintf(format, args...))
}

// Banner prints a phase banner
func (c *Console) Banner(msg string) {
	c.println(false, Magenta, msg)
}

// Error prints an error line
func (c *Console) Error(msg string) {
	c.println(true, Red, "Error: "+msg)
}

// Warning prints a warning line
func (c *Console) Warning(msg string) {
	c.println(false, Yellow, "Warning: "+msg)
}

// Information prints an informational line
func (c *Console) Information(msg string) {
	c.println(false, Cyan, "Information: "+msg)
}

// Success prints a success line
func (c *Console) Success(msg string) {
	c.println(false, Green, msg)
}

// Field prints a "label: value" line
func (c *Console) Field(label, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quiet {
		return
	}
	if c.color {
		label, value = Cyan(label), Yellow(value)
	}
	fmt.Fprintf(c.out, "%s: %s\n", label, value)
}

var std = NewConsole(os.Stdout)

// Default returns the console writing to stdout
func Default() *Console {
	return std
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	std.Error(msg)
}

// PrintSuccess prints a success message
func PrintSuccess(msg string) {
	std.Success(msg)
}

// PrintInfo prints a "label: value" line
func PrintInfo(label string, value string) {
	std.Field(label, value)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	std.Warning(msg)
}
