package client

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

// completionHeading starts the summary block of a completed game.
const completionHeading = "Game Complete"

// ErrNoShareGrid is returned when a response has no completion summary.
var ErrNoShareGrid = errors.New("response has no completion summary")

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// ShareGrid extracts the completion summary (title line and share squares)
// from a server response.
func ShareGrid(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == completionHeading && i+1 < len(lines) {
			return strings.Join(lines[i+1:], "\n"), true
		}
	}
	return "", false
}

// CopyShare copies the completion summary of text to the system clipboard
// and returns what was copied.
func CopyShare(text string) (string, error) {
	grid, ok := ShareGrid(text)
	if !ok {
		return "", ErrNoShareGrid
	}
	if err := writeClipboard(grid); err != nil {
		return "", err
	}
	return grid, nil
}
