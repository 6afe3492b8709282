package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Update handles all state updates for the TUI model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case responseMsg:
		m.handleResponse(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles the line in the prompt.
func (m *model) submit() tea.Cmd {
	if m.busy {
		return nil
	}

	line := m.input.Value()
	m.input.Reset()

	cmd, err := parseCommand(line)
	if err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}

	switch cmd.kind {
	case commandQuit:
		return tea.Quit
	case commandHelp:
		m.setContent(helpText)
		m.setStatus("", false)
		return nil
	case commandCopy:
		if _, err := m.copyShare(m.last); err != nil {
			m.setStatus("Nothing to copy: "+err.Error(), true)
			return nil
		}
		m.setStatus("Share grid copied to clipboard.", false)
		return nil
	}

	if m.finished {
		m.setStatus("The game is over. Type quit to exit.", true)
		return nil
	}

	m.busy = true
	m.setStatus("Waiting for the game...", false)
	return tea.Batch(m.request(cmd), m.spinner.Tick)
}

func (m *model) resize(width, height int) {
	m.width = width
	m.height = height

	// Header, status line and the bordered input box
	chrome := lipgloss.Height(m.buildHeader()) + 1 + 3 + 1
	vpHeight := height - chrome
	if vpHeight < 3 {
		vpHeight = 3
	}

	m.viewport.Width = width
	m.viewport.Height = vpHeight
	if !m.ready {
		m.viewport.SetContent(m.content)
		m.ready = true
	}
	m.input.Width = width - 8
}
