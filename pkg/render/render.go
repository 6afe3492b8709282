// Package render formats board snapshots as aligned, colorized text.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/entrhq/clues/pkg/game"
)

const gutter = "   "

// Share grid glyphs for the completion summary.
const (
	CorrectSquare   = "🟩"
	IncorrectSquare = "🟨"
)

// Renderer turns boards into text. It is stateless and safe for concurrent
// use; rendering the same board twice yields identical output.
type Renderer struct {
	styles styles
}

// New creates a renderer for the given color profile. Use termenv.ANSI for
// colored output and termenv.Ascii for plain text.
func New(profile termenv.Profile) *Renderer {
	return &Renderer{styles: newStyles(profile)}
}

// Board renders the 4x5 grid. Each column is as wide as its widest field.
// With includeClues, a trailing "Clues:" section lists every revealed hint
// in snapshot order.
func (r *Renderer) Board(board game.Board, includeClues bool) string {
	widths := ColumnWidths(board)

	var lines []string
	for i := 0; i < len(game.Rows); i++ {
		row := game.Rows[i]
		blocks := make([][4]string, 0, len(game.Columns))
		for j := 0; j < len(game.Columns); j++ {
			col := game.Columns[j]
			cell, _ := board.Cell(col, row)
			blocks = append(blocks, r.block(cell, widths[col]))
		}

		for field := 0; field < 4; field++ {
			parts := make([]string, len(blocks))
			for k, b := range blocks {
				parts[k] = b[field]
			}
			lines = append(lines, strings.Join(parts, gutter))
		}
		lines = append(lines, "")
	}

	if includeClues {
		lines = append(lines, "Clues:")
		lines = append(lines, Clues(board)...)
	}
	return strings.Join(lines, "\n")
}

// block renders the four lines of one card, each padded to width.
func (r *Renderer) block(c game.Cell, width int) [4]string {
	style := r.statusStyle(c.Status)
	status := string(c.Status)
	if c.Coordinate == "" {
		status = ""
	}
	return [4]string{
		r.styles.coordinate.Render(pad(c.Coordinate, width)),
		style.Render(pad(c.Name, width)),
		style.Render(pad(c.Profession, width)),
		style.Render(pad(status, width)),
	}
}

func (r *Renderer) statusStyle(s game.Status) lipgloss.Style {
	switch s {
	case game.StatusInnocent:
		return r.styles.innocent
	case game.StatusCriminal:
		return r.styles.criminal
	default:
		return r.styles.unknown
	}
}

// Update renders the terse response for a single freshly resolved cell.
func (r *Renderer) Update(c game.Cell) string {
	return strings.Join([]string{
		fmt.Sprintf("Correctly marked %s (%s) as %s.", c.Name, c.Coordinate, c.Status),
		"New clue:",
		clue(c),
	}, "\n")
}

// Completion renders the final board followed by the completion summary and
// one line of share squares per result row.
func (r *Renderer) Completion(board game.Board, summary *game.CompletionSummary) string {
	lines := []string{
		r.Board(board, true),
		"",
		"Game Complete",
		summary.Title + " - " + summary.Time,
	}
	for _, row := range summary.Rows {
		var sb strings.Builder
		for _, correct := range row {
			if correct {
				sb.WriteString(CorrectSquare)
			} else {
				sb.WriteString(IncorrectSquare)
			}
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// Clues returns one "Name: hint" line per cell with a revealed hint.
func Clues(board game.Board) []string {
	var lines []string
	for _, c := range board {
		if c.HasHint() {
			lines = append(lines, clue(c))
		}
	}
	return lines
}

// ColumnWidths returns, per column letter, the widest coordinate, name,
// profession or status string found in that column.
func ColumnWidths(board game.Board) map[byte]int {
	widths := make(map[byte]int, len(game.Columns))
	for _, c := range board {
		col := c.Column()
		for _, field := range []string{c.Coordinate, c.Name, c.Profession, string(c.Status)} {
			if w := lipgloss.Width(field); w > widths[col] {
				widths[col] = w
			}
		}
	}
	return widths
}

func clue(c game.Cell) string {
	return c.Name + ": " + c.Hint
}

// pad end-pads s with spaces to the given display width.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
