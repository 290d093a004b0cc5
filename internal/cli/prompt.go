package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rshade/memocache/internal/tui"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user accepted the prompt (typed "y" or "yes")
	Accepted bool
	// Cancelled is true if reading input failed
	Cancelled bool
}

// ConfirmDestructive prompts the user before a destructive operation.
// It returns immediately with Accepted=false in non-interactive (non-TTY)
// environments so scripts cannot hang; pass --force to skip the prompt.
//
// The prompt defaults to "No" when the user presses Enter without input.
// Valid inputs: "y", "yes" (case-insensitive) for acceptance; anything else
// declines.
func ConfirmDestructive(writer io.Writer, reader io.Reader, message string) PromptResult {
	// In non-TTY environments, return immediately without prompting
	if !tui.IsTTY() {
		return PromptResult{Accepted: false}
	}

	fmt.Fprintf(writer, "? %s [y/N] ", message)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		// EOF without error - treat as decline (user pressed Ctrl+D)
		return PromptResult{Accepted: false}
	}

	input := strings.TrimSpace(scanner.Text())
	if input == "" {
		return PromptResult{Accepted: false}
	}

	switch strings.ToLower(input) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}
