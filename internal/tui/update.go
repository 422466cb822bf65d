package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/issuegantt/internal/keyword"
	"github.com/existflow/issuegantt/internal/logger"
	"github.com/existflow/issuegantt/internal/schedule"
	"github.com/existflow/issuegantt/internal/sync"
)

const requestTimeout = 2 * time.Minute

// loadedMsg carries a fresh projection
type loadedMsg struct {
	items []schedule.Item
	err   error
}

// refreshedMsg reports the end of a refresh
type refreshedMsg struct {
	result *sync.Result
	err    error
}

// editedMsg reports the end of an edit
type editedMsg struct {
	id  int64
	err error
}

// Init loads the schedule from the store
func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) loadCmd() tea.Cmd {
	projector, key := m.projector, m.sortKey
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		items, err := projector.Project(ctx, key)
		return loadedMsg{items: items, err: err}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	syncer := m.syncer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := syncer.Refresh(ctx)
		return refreshedMsg{result: res, err: err}
	}
}

func (m Model) editCmd(e sync.Edit) tea.Cmd {
	syncer := m.syncer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := syncer.Edit(ctx, e)
		return editedMsg{id: e.ID, err: err}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listWidth := m.width - SidebarStyle.GetWidth() - 6
		m.table.SetColumns(columns(listWidth))
		m.table.SetHeight(max(m.height-8, 3))
		m.help.Width = m.width
		return m, nil

	case loadedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.message = "Failed to load schedule"
			return m, nil
		}
		m.err = nil
		m.setItems(msg.items)
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.busy = false
			m.err = msg.err
			m.message = "Refresh failed"
			return m, nil
		}
		m.err = nil
		m.message = fmt.Sprintf("Refreshed: %d issues, %d new, %d removed",
			msg.result.Issues, msg.result.Created, msg.result.Pruned)
		return m, m.loadCmd()

	case editedMsg:
		if msg.err != nil {
			m.busy = false
			m.err = msg.err
			m.message = fmt.Sprintf("Update of #%d failed", msg.id)
			return m, nil
		}
		m.err = nil
		m.message = fmt.Sprintf("Updated task %d", msg.id)
		return m, m.loadCmd()

	case tea.KeyMsg:
		switch m.mode {
		case ModeProgress:
			return m.updateInput(msg)
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneSidebar {
			m.pane = PaneList
			m.table.Focus()
		} else {
			m.pane = PaneSidebar
			m.table.Blur()
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.message = "Refreshing..."
		m.log.Info("Refresh requested from TUI")
		return m, m.refreshCmd()

	case key.Matches(msg, keys.Sort):
		if m.sortKey == schedule.SortByLabel {
			m.sortKey = schedule.SortByStartDate
		} else {
			m.sortKey = schedule.SortByLabel
		}
		m.message = "Sorted by " + string(m.sortKey)
		return m, m.loadCmd()

	case key.Matches(msg, keys.Filter):
		m.mode = ModeFilter
		m.input.SetValue(m.filterText)
		m.input.Placeholder = "Filter by title..."
		m.input.Focus()
		return m, nil

	case key.Matches(msg, keys.Escape):
		if m.filterText != "" {
			m.filterText = ""
			m.applyFilter()
		}
		m.message = ""
		return m, nil
	}

	if m.pane == PaneSidebar {
		switch {
		case key.Matches(msg, keys.Up):
			if m.labelCursor > 0 {
				m.labelCursor--
				m.applyFilter()
			}
		case key.Matches(msg, keys.Down):
			if m.labelCursor < len(m.labels) {
				m.labelCursor++
				m.applyFilter()
			}
		case key.Matches(msg, keys.Enter):
			m.pane = PaneList
			m.table.Focus()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Enter):
		if it := m.currentItem(); it != nil {
			m.message = it.HTMLURL
		}
		return m, nil

	case key.Matches(msg, keys.Progress):
		it := m.currentItem()
		if it == nil || m.busy {
			return m, nil
		}
		m.mode = ModeProgress
		m.input.Placeholder = "0.0 - 1.0"
		m.input.SetValue("")
		if it.Progress != nil {
			m.input.SetValue(keyword.FormatProgress(*it.Progress))
		}
		m.input.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		m.mode = ModeNormal
		m.input.Blur()

		it := m.currentItem()
		if it == nil {
			return m, nil
		}
		e, err := progressEdit(*it, m.input.Value())
		if err != nil {
			m.err = err
			m.message = "Invalid progress"
			return m, nil
		}
		m.busy = true
		m.message = fmt.Sprintf("Updating #%d...", it.ID)
		m.log.Info("Progress edit from TUI", logger.F("task", it.ID), logger.F("progress", *e.Progress))
		return m, m.editCmd(e)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.input.Blur()
		m.filterText = ""
		m.applyFilter()
		return m, nil

	case tea.KeyEnter:
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filterText = m.input.Value()
	m.applyFilter()
	return m, cmd
}

// progressEdit builds an edit that keeps the item's dates and sets progress
func progressEdit(it schedule.Item, raw string) (sync.Edit, error) {
	p, ok := keyword.ParseProgress(raw)
	if !ok {
		return sync.Edit{}, fmt.Errorf("%w: progress %q", sync.ErrInvalidEdit, strings.TrimSpace(raw))
	}
	start, err := time.Parse(schedule.DateLayout, it.StartDate)
	if err != nil {
		return sync.Edit{}, fmt.Errorf("%w: start date: %w", sync.ErrInvalidEdit, err)
	}
	end, err := time.Parse(schedule.DateLayout, it.EndDate)
	if err != nil {
		return sync.Edit{}, fmt.Errorf("%w: end date: %w", sync.ErrInvalidEdit, err)
	}
	return sync.Edit{
		ID:        it.ID,
		StartDate: start,
		EndDate:   end,
		Duration:  it.Duration,
		Progress:  &p,
	}, nil
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
