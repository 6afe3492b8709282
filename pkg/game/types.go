package game

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the resolution state of a single suspect card.
type Status string

const (
	// StatusUnknown means the card has not been resolved yet
	StatusUnknown Status = "unknown"

	// StatusInnocent means the suspect was revealed as innocent
	StatusInnocent Status = "innocent"

	// StatusCriminal means the suspect was revealed as a criminal
	StatusCriminal Status = "criminal"
)

// Board dimensions. Every snapshot holds exactly Columns x Rows cells.
const (
	Columns = "ABCD"
	Rows    = "12345"

	CellCount = len(Columns) * len(Rows)
)

var (
	// ErrInvalidStatus is returned when a move declares anything other than
	// innocent or criminal.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrStructureChanged signals that the page no longer matches the markup
	// this package depends on. It is never caused by user input.
	ErrStructureChanged = errors.New("page structure changed")

	// ErrTimeout is returned when an expected overlay or state change did not
	// show up within the configured wait.
	ErrTimeout = errors.New("timed out waiting for page")
)

// ParseStatus parses a declared move status. Only innocent and criminal are
// accepted, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusInnocent:
		return StatusInnocent, nil
	case StatusCriminal:
		return StatusCriminal, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Known reports whether the status has been resolved.
func (s Status) Known() bool {
	return s == StatusInnocent || s == StatusCriminal
}

// Cell is one suspect card on the board.
type Cell struct {
	// Coordinate is the column letter followed by the row digit, e.g. "B3"
	Coordinate string

	Name       string
	Profession string

	// Hint is the clue revealed with the card. Empty means no hint yet.
	Hint string

	Status Status
}

// HasHint reports whether the cell carries a revealed clue.
func (c Cell) HasHint() bool {
	return c.Hint != ""
}

// Column returns the column letter of the cell's coordinate.
func (c Cell) Column() byte {
	if c.Coordinate == "" {
		return 0
	}
	return upper(c.Coordinate[0])
}

// Row returns the row digit of the cell's coordinate.
func (c Cell) Row() byte {
	if len(c.Coordinate) < 2 {
		return 0
	}
	return c.Coordinate[1]
}

// Board is one snapshot of all cards in DOM order.
type Board []Cell

// Find looks up a cell by coordinate, ignoring case. It returns the cell's
// DOM index, which is what the page adapter clicks on.
func (b Board) Find(coordinate string) (int, Cell, bool) {
	coordinate = strings.TrimSpace(coordinate)
	for i, c := range b {
		if strings.EqualFold(c.Coordinate, coordinate) {
			return i, c, true
		}
	}
	return -1, Cell{}, false
}

// Cell returns the cell at the given column and row, if present.
func (b Board) Cell(column, row byte) (Cell, bool) {
	for _, c := range b {
		if c.Column() == upper(column) && c.Row() == row {
			return c, true
		}
	}
	return Cell{}, false
}

// AllResolved reports whether every cell has a known status.
func (b Board) AllResolved() bool {
	for _, c := range b {
		if !c.Status.Known() {
			return false
		}
	}
	return true
}

// Validate checks that the board holds each coordinate of the 4x5 grid
// exactly once.
func (b Board) Validate() error {
	if len(b) != CellCount {
		return fmt.Errorf("%w: expected %d cards, found %d", ErrStructureChanged, CellCount, len(b))
	}

	seen := make(map[string]bool, CellCount)
	for _, c := range b {
		col, row := c.Column(), c.Row()
		if len(c.Coordinate) != 2 || strings.IndexByte(Columns, col) < 0 || strings.IndexByte(Rows, row) < 0 {
			return fmt.Errorf("%w: invalid coordinate %q", ErrStructureChanged, c.Coordinate)
		}
		key := string([]byte{col, row})
		if seen[key] {
			return fmt.Errorf("%w: duplicate coordinate %s", ErrStructureChanged, key)
		}
		seen[key] = true
	}
	return nil
}

// Diff returns the cells of after whose status differs from the same
// coordinate in before. Cells missing from before are reported as changed.
func Diff(before, after Board) []Cell {
	var changed []Cell
	for _, c := range after {
		_, prev, ok := before.Find(c.Coordinate)
		if !ok || prev.Status != c.Status {
			changed = append(changed, c)
		}
	}
	return changed
}

// CompletionSummary is the result dialog shown once the puzzle is solved.
type CompletionSummary struct {
	Title string
	Time  string

	// Rows holds one entry per share-grid row; true marks a correct reveal.
	Rows [][]bool
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
