package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary   = lipgloss.Color("#4ECDC4")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Done      = lipgloss.Color("#95E1A3") // Green
	Warning   = lipgloss.Color("#FFE66D") // Yellow
	Failure   = lipgloss.Color("#FF6B6B") // Red
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Sidebar
	SidebarStyle = lipgloss.NewStyle().
			Width(22).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(1, 1)

	// Label item
	LabelItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	LabelItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	// Schedule table
	ListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	ErrorStyle = lipgloss.NewStyle().Foreground(Failure).Bold(true)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// LabelStyle renders text in a label's color, muted when it has none
func LabelStyle(color string) lipgloss.Style {
	if color == "" {
		return lipgloss.NewStyle().Foreground(TextMuted)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// ProgressStyle picks a color for a completion fraction
func ProgressStyle(p float64) lipgloss.Style {
	switch {
	case p >= 1:
		return lipgloss.NewStyle().Foreground(Done).Bold(true)
	case p >= 0.5:
		return lipgloss.NewStyle().Foreground(Done)
	case p > 0:
		return lipgloss.NewStyle().Foreground(Warning)
	default:
		return lipgloss.NewStyle().Foreground(TextMuted)
	}
}
