package tui

import "strings"

// View renders the entire TUI interface.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.buildHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.buildStatus())
	b.WriteString("\n")
	b.WriteString(inputBoxStyle.Width(max(m.width-2, 10)).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.buildTips())
	return b.String()
}

func (m *model) buildHeader() string {
	return headerStyle.Render("Clues by Sam")
}

func (m *model) buildStatus() string {
	switch {
	case m.busy:
		return m.spinner.View() + " " + statusStyle.Render(m.status)
	case m.isError:
		return errorStyle.Render(m.status)
	default:
		return statusStyle.Render(m.status)
	}
}

func (m *model) buildTips() string {
	return tipsStyle.Render("  i <coord> • c <coord> • board • copy • stop • help • quit • PgUp/PgDn to scroll • Esc to exit")
}
