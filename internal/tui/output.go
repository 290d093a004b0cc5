package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode describes how command output should be rendered.
type OutputMode int

const (
	// OutputModePlain renders unstyled text suitable for pipes and logs.
	OutputModePlain OutputMode = iota

	// OutputModeStyled renders Lip Gloss styled text to a terminal.
	OutputModeStyled

	// OutputModeInteractive runs a full-screen Bubble Tea program.
	OutputModeInteractive
)

// defaultTerminalWidth is used when the real width cannot be determined.
const defaultTerminalWidth = 100

// DetectOutputMode determines how to render based on flags and the terminal.
// plain forces unstyled output, noColor disables styling (honoring the flag
// and the NO_COLOR convention), and interactive requests a full TUI which is
// only granted when stdout is a real terminal.
func DetectOutputMode(plain, noColor, interactive bool) OutputMode {
	if plain {
		return OutputModePlain
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return OutputModePlain
	}

	if noColor || os.Getenv("NO_COLOR") != "" {
		return OutputModePlain
	}

	if interactive && term.IsTerminal(int(os.Stdin.Fd())) {
		return OutputModeInteractive
	}

	return OutputModeStyled
}

// IsTTY reports whether both stdin and stdout are terminals.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the current terminal width, falling back to a
// sensible default when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}
