package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/issuegantt/internal/logger"
	"github.com/existflow/issuegantt/internal/model"
	"github.com/existflow/issuegantt/internal/schedule"
	"github.com/existflow/issuegantt/internal/sync"
)

// Projector builds the schedule shown in the list
type Projector interface {
	Project(ctx context.Context, key schedule.SortKey) ([]schedule.Item, error)
}

// Syncer refreshes the store and pushes edits
type Syncer interface {
	Refresh(ctx context.Context) (*sync.Result, error)
	Edit(ctx context.Context, e sync.Edit) (model.Task, error)
}

// Pane represents which pane is focused
type Pane int

const (
	PaneSidebar Pane = iota
	PaneList
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeProgress
	ModeFilter
	ModeHelp
)

// allLabels is the sidebar entry that shows every item
const allLabels = "All"

// Model is the main TUI model
type Model struct {
	projector Projector
	syncer    Syncer
	log       *logger.Logger

	items  []schedule.Item // Current projection
	shown  []schedule.Item // Items visible in the table
	labels []schedule.LabelRef

	sortKey schedule.SortKey

	// UI state
	width       int
	height      int
	pane        Pane
	mode        Mode
	labelCursor int
	busy        bool

	table table.Model
	input textinput.Model
	help  help.Model

	filterText string
	message    string
	err        error
}

// NewModel creates a new TUI model
func NewModel(projector Projector, syncer Syncer, sortKey schedule.SortKey) Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Border).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(Primary).
		Background(Surface).
		Bold(true)
	t.SetStyles(st)

	if sortKey == "" {
		sortKey = schedule.SortByLabel
	}

	return Model{
		projector: projector,
		syncer:    syncer,
		log:       logger.Named("tui"),
		sortKey:   sortKey,
		pane:      PaneList,
		mode:      ModeNormal,
		table:     t,
		input:     ti,
		help:      help.New(),
	}
}

// columns sizes the table for a list pane of the given width
func columns(width int) []table.Column {
	title := width - 6 - 14 - 10 - 10 - 4 - 16 - 14
	if title < 12 {
		title = 12
	}
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Task", Width: title},
		{Title: "Label", Width: 14},
		{Title: "Start", Width: 10},
		{Title: "End", Width: 10},
		{Title: "Days", Width: 4},
		{Title: "Progress", Width: 16},
	}
}

// selectedLabel returns the label picked in the sidebar, "" for all
func (m *Model) selectedLabel() string {
	if m.labelCursor <= 0 || m.labelCursor > len(m.labels) {
		return ""
	}
	return m.labels[m.labelCursor-1].Name
}

// applyFilter narrows items to the selected label and filter text
func (m *Model) applyFilter() {
	label := m.selectedLabel()
	needle := strings.ToLower(m.filterText)

	m.shown = nil
	for _, it := range m.items {
		if label != "" && it.Label != label {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(it.Text), needle) {
			continue
		}
		m.shown = append(m.shown, it)
	}

	rows := make([]table.Row, 0, len(m.shown))
	for _, it := range m.shown {
		rows = append(rows, table.Row{
			itoa(it.ID),
			it.Text,
			truncate(it.Label, 14),
			it.StartDate,
			it.EndDate,
			itoa(int64(it.Duration)),
			progressBar(it.Progress, 10),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// setItems replaces the projection and rebuilds the sidebar and table
func (m *Model) setItems(items []schedule.Item) {
	m.items = items
	m.labels = schedule.Labels(items)
	if m.labelCursor > len(m.labels) {
		m.labelCursor = 0
	}
	m.applyFilter()
}

// currentItem returns the item under the table cursor
func (m *Model) currentItem() *schedule.Item {
	i := m.table.Cursor()
	if i >= 0 && i < len(m.shown) {
		return &m.shown[i]
	}
	return nil
}
