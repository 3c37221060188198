package util

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// WaitForEnter blocks until a line (or EOF) is read from r.
func WaitForEnter(r io.Reader) {
	_, _ = bufio.NewReader(r).ReadString('\n')
}

// TerminalWidth returns the width of stdout, or fallback when it is not a terminal.
func TerminalWidth(fallback int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
