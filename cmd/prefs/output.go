package main

import (
	"fmt"
	"io"
	"os"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
)

// statusOut receives progress and confirmation lines. Values a script may
// consume go to the command's stdout instead.
var statusOut io.Writer = os.Stderr

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

// report writes one status line prefixed with mark.
func report(color, mark, format string, args ...any) {
	fmt.Fprintln(statusOut, colorize(color, mark+" "+fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { report(colorGreen, "✓", format, args...) }
func printWarning(format string, args ...any) { report(colorYellow, "⚠", format, args...) }

// printStatus writes an indented per-key line, used while migrating.
func printStatus(key, format string, args ...any) {
	fmt.Fprintf(statusOut, "  %s %s\n", colorize(colorBold, key+":"), fmt.Sprintf(format, args...))
}
