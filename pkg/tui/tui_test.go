package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/clues/pkg/client"
	"github.com/entrhq/clues/pkg/game"
)

type fakeController struct {
	marks []string
	text  string
	err   error
}

func (f *fakeController) Board(context.Context) (string, error) { return "board", nil }
func (f *fakeController) Stop(context.Context) (string, error)  { return "Server stopped.", nil }
func (f *fakeController) Mark(_ context.Context, coordinate string, status game.Status, showBoard bool) (string, error) {
	mark := coordinate + "=" + string(status)
	if showBoard {
		mark += "+board"
	}
	f.marks = append(f.marks, mark)
	return f.text, f.err
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input   string
		want    command
		wantErr string
	}{
		{input: "innocent a1", want: command{kind: commandMark, coordinate: "a1", status: game.StatusInnocent}},
		{input: "I B2", want: command{kind: commandMark, coordinate: "b2", status: game.StatusInnocent}},
		{input: "c d5 -b", want: command{kind: commandMark, coordinate: "d5", status: game.StatusCriminal, showBoard: true}},
		{input: "criminal --board c3", want: command{kind: commandMark, coordinate: "c3", status: game.StatusCriminal, showBoard: true}},
		{input: "  board ", want: command{kind: commandBoard}},
		{input: "stop", want: command{kind: commandStop}},
		{input: "copy", want: command{kind: commandCopy}},
		{input: "?", want: command{kind: commandHelp}},
		{input: "exit", want: command{kind: commandQuit}},
		{input: "", wantErr: "type a command"},
		{input: "innocent", wantErr: "provide a coordinate"},
		{input: "innocent a1 b2", wantErr: "unexpected argument"},
		{input: "guilty a1", wantErr: "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseCommand(tt.input)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func typeLine(m *model, line string) tea.Cmd {
	m.input.SetValue(line)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestModel_Mark(t *testing.T) {
	ctrl := &fakeController{text: "Correctly marked Bob (B1) as innocent."}
	m := newModel(context.Background(), ctrl)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.handleResponse(responseMsg{text: "board"})

	cmd := typeLine(m, "i b1")
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.Empty(t, m.input.Value())

	// Input is ignored while a request is in flight
	assert.Nil(t, typeLine(m, "c a1"))

	m.Update(m.request(command{kind: commandMark, coordinate: "b1", status: game.StatusInnocent})())
	assert.False(t, m.busy)
	assert.Equal(t, "Correctly marked Bob (B1) as innocent.", m.content)
	assert.Equal(t, []string{"b1=innocent"}, ctrl.marks)
}

func TestModel_ServerError(t *testing.T) {
	ctrl := &fakeController{err: &client.StatusError{Code: 404, Body: "Not Found: No suspect at e9"}}
	m := newModel(context.Background(), ctrl)
	m.handleResponse(responseMsg{text: "board"})

	m.Update(m.request(command{kind: commandMark, coordinate: "e9", status: game.StatusInnocent})())
	assert.True(t, m.isError)
	assert.Equal(t, "Not Found: No suspect at e9", m.status)
	assert.Equal(t, "board", m.content)

	m.handleResponse(responseMsg{err: errors.New("connection refused")})
	assert.Contains(t, m.status, "connection refused")
}

func TestModel_Completion(t *testing.T) {
	m := newModel(context.Background(), &fakeController{})
	m.handleResponse(responseMsg{text: "board\n\nGame Complete\nPuzzle #1 - Time: 00:42\n🟩🟩🟩🟩"})
	assert.True(t, m.finished)

	var copied string
	m.copyShare = func(text string) (string, error) {
		grid, ok := client.ShareGrid(text)
		require.True(t, ok)
		copied = grid
		return grid, nil
	}
	assert.Nil(t, typeLine(m, "copy"))
	assert.Equal(t, "Puzzle #1 - Time: 00:42\n🟩🟩🟩🟩", copied)
	assert.False(t, m.isError)

	// No more moves once the game is over
	assert.Nil(t, typeLine(m, "i a1"))
	assert.True(t, m.isError)
}

func TestModel_StopAndQuit(t *testing.T) {
	m := newModel(context.Background(), &fakeController{})
	m.handleResponse(responseMsg{text: "board"})

	require.NotNil(t, typeLine(m, "stop"))
	m.Update(m.request(command{kind: commandStop})())
	assert.True(t, m.finished)
	assert.Equal(t, "Server stopped.", m.content)

	cmd := typeLine(m, "quit")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_View(t *testing.T) {
	m := newModel(context.Background(), &fakeController{})
	assert.Equal(t, "Initializing...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.handleResponse(responseMsg{text: "A1   B1"})
	view := m.View()
	assert.Contains(t, view, "Clues by Sam")
	assert.Contains(t, view, "A1   B1")
}
