// Package tui implements the interactive play mode: a terminal UI that
// shows the latest server response and sends moves typed at a prompt.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/clues/pkg/client"
	"github.com/entrhq/clues/pkg/game"
)

// Controller issues requests to the game server. *client.Client
// implements it.
type Controller interface {
	Board(ctx context.Context) (string, error)
	Stop(ctx context.Context) (string, error)
	Mark(ctx context.Context, coordinate string, status game.Status, showBoard bool) (string, error)
}

// responseMsg carries the result of a request.
type responseMsg struct {
	text    string
	err     error
	stopped bool
}

type model struct {
	// Bubble Tea components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	ctx        context.Context
	controller Controller

	// content is the text shown in the viewport; last is the latest
	// successful response, kept for copy
	content string
	last    string

	status  string
	isError bool

	busy     bool
	finished bool

	width  int
	height int
	ready  bool

	copyShare func(string) (string, error)
}

func newModel(ctx context.Context, controller Controller) *model {
	input := textinput.New()
	input.Placeholder = "innocent a1"
	input.Prompt = "> "
	input.CharLimit = 64
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	return &model{
		input:      input,
		spinner:    s,
		ctx:        ctx,
		controller: controller,
		busy:       true,
		status:     "Loading board...",
		copyShare:  client.CopyShare,
	}
}

// Init loads the board.
func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.request(command{kind: commandBoard}))
}

// request runs cmd against the server in the background.
func (m *model) request(cmd command) tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		var (
			text string
			err  error
		)
		switch cmd.kind {
		case commandStop:
			text, err = controller.Stop(ctx)
			return responseMsg{text: text, err: err, stopped: err == nil}
		case commandMark:
			text, err = controller.Mark(ctx, cmd.coordinate, cmd.status, cmd.showBoard)
		default:
			text, err = controller.Board(ctx)
		}
		return responseMsg{text: text, err: err}
	}
}

func (m *model) handleResponse(msg responseMsg) {
	m.busy = false

	var statusErr *client.StatusError
	switch {
	case errors.As(msg.err, &statusErr):
		m.setStatus(statusErr.Body, true)
		return
	case msg.err != nil:
		m.setStatus(fmt.Sprintf("Request failed: %v", msg.err), true)
		return
	}

	m.last = msg.text
	m.setContent(msg.text)

	switch {
	case msg.stopped:
		m.finished = true
		m.setStatus("Server stopped. Type quit to exit.", false)
	case isComplete(msg.text):
		m.finished = true
		m.setStatus("Game complete. Type copy to copy the share grid, quit to exit.", false)
	default:
		m.setStatus("", false)
	}
}

func (m *model) setContent(text string) {
	m.content = text
	m.viewport.SetContent(text)
	m.viewport.GotoTop()
}

func (m *model) setStatus(text string, isError bool) {
	m.status = text
	m.isError = isError
}

func isComplete(text string) bool {
	_, ok := client.ShareGrid(text)
	return ok
}
