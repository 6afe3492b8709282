package game_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/clues/pkg/game"
	"github.com/entrhq/clues/pkg/game/gametest"
)

func TestReadBoard_CoversEveryCoordinateOnce(t *testing.T) {
	page := gametest.NewPage()
	page.Reveal("B2", "D5")

	board, err := game.ReadBoard(page)
	require.NoError(t, err)
	require.Len(t, board, game.CellCount)

	seen := make(map[string]int)
	for _, c := range board {
		seen[c.Coordinate]++
	}
	for _, col := range game.Columns {
		for _, row := range game.Rows {
			coord := fmt.Sprintf("%c%c", col, row)
			assert.Equal(t, 1, seen[coord], "coordinate %s", coord)
		}
	}
}

func TestReadBoard_ExtractsFields(t *testing.T) {
	page := gametest.NewPage()
	page.Reveal("B1")

	board, err := game.ReadBoard(page)
	require.NoError(t, err)

	// DOM order is row-major.
	assert.Equal(t, "A1", board[0].Coordinate)
	assert.Equal(t, "B1", board[1].Coordinate)
	assert.Equal(t, "A2", board[4].Coordinate)

	_, b1, ok := board.Find("b1")
	require.True(t, ok)
	assert.Equal(t, "Bob", b1.Name)
	assert.Equal(t, "Coder", b1.Profession)
	assert.Equal(t, game.StatusInnocent, b1.Status)
	assert.Equal(t, "Bob has an alibi for Tuesday", b1.Hint)

	// A1 has an empty hint element and D1 none at all; both mean no hint.
	for _, coord := range []string{"A1", "D1"} {
		_, c, ok := board.Find(coord)
		require.True(t, ok)
		assert.Equal(t, game.StatusUnknown, c.Status)
		assert.False(t, c.HasHint(), "coordinate %s", coord)
	}
}

func TestReadBoard_StatusIsMonotonic(t *testing.T) {
	page := gametest.NewPage()
	page.Reveal("A1")

	first, err := game.ReadBoard(page)
	require.NoError(t, err)

	page.Reveal("C3")
	second, err := game.ReadBoard(page)
	require.NoError(t, err)

	changed := game.Diff(first, second)
	require.Len(t, changed, 1)
	assert.Equal(t, "C3", changed[0].Coordinate)

	_, a1, _ := second.Find("A1")
	assert.Equal(t, game.StatusCriminal, a1.Status)
}

func TestReadBoard_RejectsUnstartedPage(t *testing.T) {
	_, err := game.ReadBoard(gametest.NewLobbyPage())
	require.Error(t, err)
	assert.True(t, errors.Is(err, game.ErrStructureChanged))
}

func TestParseBoard_StatusClasses(t *testing.T) {
	raw := `<div class="card-grid">
	  <div class="card-container">
	    <div class="coord">A1</div><div class="name">Ada</div><div class="profession">Baker</div>
	    <div class="card-back innocent"><div class="hint">Ada is nice</div></div>
	  </div>
	  <div class="card-container">
	    <div class="coord">B1</div><div class="name">Bob</div><div class="profession">Coder</div>
	    <div class="card-back criminal flipped"></div>
	  </div>
	  <div class="card-container">
	    <div class="coord">C1</div><div class="name">Cy</div><div class="profession">Judge</div>
	  </div>
	</div>
	<div class="card-container"><div class="coord">Z9</div></div>`

	board, err := game.ParseBoard(raw)
	require.NoError(t, err)
	require.Len(t, board, 3, "cards outside the grid are ignored")

	assert.Equal(t, game.StatusInnocent, board[0].Status)
	assert.Equal(t, "Ada is nice", board[0].Hint)
	assert.Equal(t, game.StatusCriminal, board[1].Status)
	assert.Equal(t, game.StatusUnknown, board[2].Status)
}

func TestParseCompletion(t *testing.T) {
	raw := `<div class="modal complete">
	  <h3>Puzzle #7</h3><h3>Time: 02:01</h3>
	  <div class="share-grid-row"><i class="share-grid-element correct"></i><i class="share-grid-element"></i></div>
	  <div class="share-grid-row"><i class="share-grid-element correct"></i><i class="share-grid-element correct"></i></div>
	</div>`

	summary, err := game.ParseCompletion(raw)
	require.NoError(t, err)
	assert.Equal(t, "Puzzle #7", summary.Title)
	assert.Equal(t, "Time: 02:01", summary.Time)
	assert.Equal(t, [][]bool{{true, false}, {true, true}}, summary.Rows)
}

func TestParseCompletion_MissingDialog(t *testing.T) {
	_, err := game.ParseCompletion(`<div class="modal warning"></div>`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, game.ErrStructureChanged))
}

func TestBoardValidate(t *testing.T) {
	page := gametest.NewPage()
	valid, err := game.ReadBoard(page)
	require.NoError(t, err)

	tests := []struct {
		name  string
		board func() game.Board
	}{
		{
			name:  "too few cards",
			board: func() game.Board { return valid[:19] },
		},
		{
			name: "duplicate coordinate",
			board: func() game.Board {
				b := append(game.Board(nil), valid...)
				b[1].Coordinate = "A1"
				return b
			},
		},
		{
			name: "out of range coordinate",
			board: func() game.Board {
				b := append(game.Board(nil), valid...)
				b[0].Coordinate = "E1"
				return b
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.board().Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, game.ErrStructureChanged))
		})
	}

	assert.NoError(t, valid.Validate())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    game.Status
		wantErr bool
	}{
		{input: "innocent", want: game.StatusInnocent},
		{input: "CRIMINAL", want: game.StatusCriminal},
		{input: " Innocent ", want: game.StatusInnocent},
		{input: "unknown", wantErr: true},
		{input: "", wantErr: true},
		{input: "guilty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := game.ParseStatus(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, game.ErrInvalidStatus))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
