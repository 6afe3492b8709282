package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/clues/pkg/game"
	"github.com/entrhq/clues/pkg/game/gametest"
)

func readBoard(t *testing.T, page *gametest.Page) game.Board {
	t.Helper()
	board, err := game.ReadBoard(page)
	require.NoError(t, err)
	return board
}

func TestColumnWidths(t *testing.T) {
	board := game.Board{
		{Coordinate: "A1", Name: "Abe", Profession: "Baker", Status: game.StatusUnknown},
		{Coordinate: "A2", Name: "Al", Profession: "Coder", Status: game.StatusUnknown},
		{Coordinate: "B1", Name: "Bartholomew", Profession: "Judge", Status: game.StatusCriminal},
	}

	widths := ColumnWidths(board)
	assert.Equal(t, 7, widths['A'])
	assert.Equal(t, 11, widths['B'])
}

func TestBoard_Layout(t *testing.T) {
	page := gametest.NewPage()
	page.Reveal("B1")
	out := New(termenv.Ascii).Board(readBoard(t, page), true)
	lines := strings.Split(out, "\n")

	// Column B widens to fit "innocent"; the others stay at "unknown".
	row := func(a, b, c, d string) string {
		return fmt.Sprintf("%-7s   %-8s   %-7s   %-7s", a, b, c, d)
	}
	assert.Equal(t, row("A1", "B1", "C1", "D1"), lines[0])
	assert.Equal(t, row("Ada", "Bob", "Chloe", "Dmitri"), lines[1])
	assert.Equal(t, row("Baker", "Coder", "Judge", "Farmer"), lines[2])
	assert.Equal(t, row("unknown", "innocent", "unknown", "unknown"), lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, row("A2", "B2", "C2", "D2"), lines[5])
	assert.Equal(t, row("Quinn", "Rosa", "Sam", "Theo"), lines[21])

	// 5 rows of 4 lines plus a blank line each, then the clues.
	require.Len(t, lines, 5*5+2)
	assert.Equal(t, "Clues:", lines[25])
	assert.Equal(t, "Bob: Bob has an alibi for Tuesday", lines[26])
}

func TestBoard_WithoutClues(t *testing.T) {
	page := gametest.NewPage()
	page.Reveal("B1")
	out := New(termenv.Ascii).Board(readBoard(t, page), false)

	assert.NotContains(t, out, "Clues:")
	assert.NotContains(t, out, "alibi")
}

func TestBoard_Idempotent(t *testing.T) {
	page := gametest.NewPage()
	page.Reveal("A1", "C4", "D2")
	board := readBoard(t, page)

	for _, profile := range []termenv.Profile{termenv.Ascii, termenv.ANSI} {
		r := New(profile)
		assert.Equal(t, r.Board(board, true), r.Board(board, true))
	}
}

func TestBoard_ColorIsDecorationOnly(t *testing.T) {
	page := gametest.NewPage()
	page.Reveal("A1", "B1")
	board := readBoard(t, page)

	colored := New(termenv.ANSI).Board(board, true)
	plain := New(termenv.Ascii).Board(board, true)

	assert.Contains(t, colored, "\x1b[")
	assert.NotContains(t, plain, "\x1b[")
	assert.Equal(t, plain, ansi.Strip(colored))
}

func TestBoard_IgnoresSnapshotOrder(t *testing.T) {
	page := gametest.NewPage()
	board := readBoard(t, page)

	reversed := make(game.Board, len(board))
	for i, c := range board {
		reversed[len(board)-1-i] = c
	}

	r := New(termenv.Ascii)
	assert.Equal(t, r.Board(board, false), r.Board(reversed, false))
}

func TestUpdate(t *testing.T) {
	cell := game.Cell{
		Coordinate: "B1",
		Name:       "Bob",
		Profession: "Coder",
		Hint:       "Bob has an alibi for Tuesday",
		Status:     game.StatusInnocent,
	}

	want := "Correctly marked Bob (B1) as innocent.\nNew clue:\nBob: Bob has an alibi for Tuesday"
	assert.Equal(t, want, New(termenv.Ascii).Update(cell))
}

func TestCompletion(t *testing.T) {
	page := gametest.NewPage()
	page.RevealAllBut()
	board := readBoard(t, page)

	summary := &game.CompletionSummary{
		Title: "Puzzle #42",
		Time:  "Time: 04:13",
		Rows:  [][]bool{{true, false}, {true, true}},
	}

	r := New(termenv.Ascii)
	out := r.Completion(board, summary)

	assert.True(t, strings.HasPrefix(out, r.Board(board, true)))
	assert.True(t, strings.HasSuffix(out, "\n\nGame Complete\nPuzzle #42 - Time: 04:13\n🟩🟨\n🟩🟩"))
}
