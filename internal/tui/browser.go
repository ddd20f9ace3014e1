package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dedene/datlink-cli/internal/dat"
	"github.com/dedene/datlink-cli/internal/ui"
)

// State represents the current phase of the TUI model.
type State int

const (
	// StateBrowsing shows the filterable post list.
	StateBrowsing State = iota
	// StateReading shows a single post in a scrollable viewport.
	StateReading
	// StateDone means the TUI is finished and ready to quit.
	StateDone
)

const footer = "  Esc: back | n/p: next/prev | Ctrl+C: quit"

// Model is the bubbletea model for the post browser.
type Model struct {
	state   State
	list    list.Model
	reader  viewport.Model
	current int
	color   bool
	width   int
	height  int
	ready   bool
}

// NewBrowser creates a browser over posts. The list title is the thread name.
func NewBrowser(title string, posts []dat.Post, color bool) Model {
	items := make([]list.Item, len(posts))
	for i, p := range posts {
		items[i] = NewPostItem(i+1, p)
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	return Model{
		state:  StateBrowsing,
		list:   l,
		reader: viewport.New(0, 0),
		color:  color,
	}
}

// Init returns the initial command. The list handles its own init internally.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
		m.list.SetSize(wsm.Width, wsm.Height-2)
		m.reader.Width = wsm.Width
		m.reader.Height = wsm.Height - 2
		m.ready = true

		if m.state == StateReading {
			m.showCurrent()
		}

		return m, nil
	}

	switch m.state {
	case StateBrowsing:
		return m.updateBrowsing(msg)
	case StateReading:
		return m.updateReading(msg)
	}

	return m, nil
}

func (m Model) updateBrowsing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		filtering := m.list.FilterState() == list.Filtering

		switch keyMsg.String() {
		case "ctrl+c":
			m.state = StateDone

			return m, tea.Quit

		case "esc", "q":
			if !filtering {
				m.state = StateDone

				return m, tea.Quit
			}

		case "enter":
			if filtering {
				break
			}

			item, ok := m.list.SelectedItem().(PostItem)
			if !ok {
				return m, nil
			}

			m.current = item.Number()
			m.state = StateReading
			m.showCurrent()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m Model) updateReading(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c":
			m.state = StateDone

			return m, tea.Quit

		case "esc", "backspace", "q":
			m.state = StateBrowsing

			return m, nil

		case "n":
			if m.current < len(m.list.Items()) {
				m.current++
				m.showCurrent()
			}

			return m, nil

		case "p":
			if m.current > 1 {
				m.current--
				m.showCurrent()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.reader, cmd = m.reader.Update(msg)

	return m, cmd
}

// showCurrent loads post number m.current into the viewport.
func (m *Model) showCurrent() {
	items := m.list.Items()
	if m.current < 1 || m.current > len(items) {
		return
	}

	item, ok := items[m.current-1].(PostItem)
	if !ok {
		return
	}

	m.reader.SetContent(ui.RenderPost(item.Number(), item.Post(), m.width, m.color))
	m.reader.GotoTop()
}

// View renders the current TUI state.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.state {
	case StateBrowsing:
		return m.list.View()
	case StateReading:
		return fmt.Sprintf("%s\n\n%s", m.reader.View(), footer)
	}

	return ""
}

// State returns the current browser state.
func (m Model) State() State { return m.state }

// Current returns the 1-based number of the post being read, or 0.
func (m Model) Current() int { return m.current }

// Browse runs the browser full-screen until the user quits.
func Browse(title string, posts []dat.Post, color bool) error {
	if _, err := tea.NewProgram(NewBrowser(title, posts, color), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}

	return nil
}
