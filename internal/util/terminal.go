package util

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal checks if the given file descriptor is a terminal
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// ShowProgress reports whether a progress bar should be drawn on stderr.
// Bars are suppressed when output is piped or in quiet mode.
func ShowProgress() bool {
	return IsTerminal(os.Stderr.Fd()) && !IsQuiet()
}

// GetTerminalWidth returns the width of the terminal, or 80 if not a terminal
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return width
}
