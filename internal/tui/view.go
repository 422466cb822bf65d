package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sidebar := m.renderSidebar()
	list := m.renderList()
	statusBar := m.renderStatusBar()

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, list)

	if m.mode == ModeProgress || m.mode == ModeFilter {
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			m.renderModal(),
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	if m.mode == ModeHelp {
		mainContent = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m Model) renderSidebar() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Schedule") + "\n")
	b.WriteString(HelpStyle.Render("sort: "+string(m.sortKey)) + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", 17)) + "\n\n")

	entries := append([]string{allLabels}, make([]string, len(m.labels))...)
	for i, l := range m.labels {
		entries[i+1] = l.Name
	}

	for i, name := range entries {
		swatch := "  "
		if i > 0 {
			swatch = LabelStyle(m.labels[i-1].Color).Render("■ ")
		}
		line := swatch + truncate(name, 15)
		style := LabelItemStyle
		if i == m.labelCursor {
			style = LabelItemSelectedStyle
			if m.pane == PaneSidebar {
				line = "▸" + line
			}
		}
		b.WriteString(style.Render(line) + "\n")
	}

	return SidebarStyle.Height(max(m.height-4, 1)).Render(b.String())
}

func (m Model) renderList() string {
	header := HeaderStyle.Render(fmt.Sprintf("%d tasks", len(m.shown)))
	if m.filterText != "" {
		header += HelpStyle.Render(fmt.Sprintf("  filter: %q", m.filterText))
	}
	if len(m.shown) == 0 {
		return ListStyle.Render(header + "\n\n" + HelpStyle.Render("Nothing scheduled. Press r to refresh."))
	}
	return ListStyle.Render(header + "\n\n" + m.table.View())
}

func (m Model) renderStatusBar() string {
	left := m.message
	if m.err != nil {
		left = ErrorStyle.Render(m.message + ": " + m.err.Error())
	}
	if m.busy && m.err == nil {
		left = lipgloss.NewStyle().Foreground(Warning).Render(m.message)
	}
	right := m.help.ShortHelpView(keys.ShortHelp())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return StatusBarStyle.Width(m.width).Render(left)
	}
	return StatusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderModal() string {
	title := "Filter"
	if m.mode == ModeProgress {
		title = "Progress"
		if it := m.currentItem(); it != nil {
			title = fmt.Sprintf("Progress for #%d %s", it.ID, truncate(it.Text, 30))
		}
	}
	body := HeaderStyle.Render(title) + "\n\n" + m.input.View() + "\n\n" +
		HelpStyle.Render("enter confirm • esc cancel")
	return ModalStyle.Render(body)
}

func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	return ListStyle.Render(HeaderStyle.Render("Keys") + "\n\n" + h.View(keys) + "\n\n" +
		HelpStyle.Render("Press any key to return"))
}
