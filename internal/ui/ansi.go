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

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in color when stdout is a terminal or color is forced.
func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

// Status lines go to stderr so stdout stays clean for serialized XML.
var statusOut io.Writer = os.Stderr

// SetStatusOutput redirects OK, Fail and Hint; nil restores stderr.
func SetStatusOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	statusOut = w
}

func OK(msg string)   { fmt.Fprintln(statusOut, C(fgGreen, symCheck+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(statusOut, C(fgRed, symCross+" "+msg)) }

// Hint prints a dimmed follow-up line under a failure.
func Hint(msg string) { fmt.Fprintln(statusOut, C(dim, "Hint: "+msg)) }
