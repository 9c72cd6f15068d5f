package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray    = "\033[90m"
	fgGreen   = "\033[32m"
	fgYellow  = "\033[33m"
	fgBlue    = "\033[34m"
	fgMagenta = "\033[35m"
	fgRed     = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool

	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

// SetOutput redirects OK, Panel and friends (stdout) and Fail (stderr).
func SetOutput(stdout, stderr io.Writer) {
	out, errOut = stdout, stderr
}

// Out is the writer plain command output goes to.
func Out() io.Writer { return out }

func isTTY() bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

func OK(msg string)   { fmt.Fprintln(out, C(current.Success, symCheck+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(errOut, C(current.Error, symCross+" "+msg)) }

// Hint prints a muted line on stderr, under a Fail.
func Hint(msg string) { fmt.Fprintln(errOut, C(current.Muted, msg)) }
