// Package tui provides the interactive sign-in and task list screens.
package tui

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"gtodo/internal/service"
	"gtodo/internal/session"
)

type screen int

const (
	screenLoading screen = iota
	screenSignIn
	screenList
)

// OpenFunc loads the task store once the user is signed in.
type OpenFunc func(ctx context.Context) service.Service

// Model is the root bubbletea model.
type Model struct {
	ctx  context.Context
	gate *session.Gate
	open OpenFunc
	log  *log.Logger

	screen screen

	// sign-in screen
	signingIn    bool
	cancelSignIn context.CancelFunc
	authURL      string
	authErr      string

	// list screen
	tasks     service.Service
	query     service.Query
	cursor    int
	notice    string
	dialog    *dialog
	searching bool
	search    textinput.Model

	width int
}

type sessionMsg struct{ state session.State }

type signInMsg struct{ outcome session.Outcome }

type tasksMsg struct{ svc service.Service }

type authURLMsg string

// New creates the model. gate may be replaced before the program starts.
func New(ctx context.Context, gate *session.Gate, open OpenFunc, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	search := textinput.New()
	search.Placeholder = "Search tasks"
	search.Prompt = "/ "
	search.CharLimit = 128

	return &Model{
		ctx:    ctx,
		gate:   gate,
		open:   open,
		log:    logger,
		screen: screenLoading,
		query:  service.Query{Filter: service.FilterAll, Sort: service.SortDueDate},
		search: search,
	}
}

// Init checks for an existing session.
func (m *Model) Init() tea.Cmd {
	gate, ctx := m.gate, m.ctx
	return func() tea.Msg {
		return sessionMsg{state: gate.State(ctx)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case sessionMsg:
		if msg.state == session.Authenticated {
			return m, m.enterList()
		}
		m.screen = screenSignIn
		return m, nil
	case authURLMsg:
		m.authURL = string(msg)
		return m, nil
	case signInMsg:
		return m, m.finishSignIn(msg.outcome)
	case tasksMsg:
		m.tasks = msg.svc
		m.screen = screenList
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.stopSignIn()
			return m, tea.Quit
		}
		switch m.screen {
		case screenSignIn:
			return m.updateSignIn(msg)
		case screenList:
			return m.updateList(msg)
		}
	}
	return m, nil
}

// enterList shows the list, loading the store the first time.
func (m *Model) enterList() tea.Cmd {
	if m.tasks != nil {
		m.screen = screenList
		return nil
	}
	m.screen = screenLoading
	open, ctx := m.open, m.ctx
	return func() tea.Msg {
		return tasksMsg{svc: open(ctx)}
	}
}

func (m *Model) updateSignIn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.signingIn {
		if msg.String() == "esc" {
			m.stopSignIn()
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		return m, m.startSignIn()
	}
	return m, nil
}

// startSignIn runs the provider flow in the background. The previous error
// stays visible until an attempt succeeds or fails anew.
func (m *Model) startSignIn() tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	m.signingIn = true
	m.cancelSignIn = cancel
	m.authURL = ""
	gate := m.gate
	return func() tea.Msg {
		return signInMsg{outcome: gate.SignIn(ctx)}
	}
}

// stopSignIn cancels a pending flow; it then reports Cancelled.
func (m *Model) stopSignIn() {
	if m.cancelSignIn != nil {
		m.cancelSignIn()
	}
}

func (m *Model) finishSignIn(outcome session.Outcome) tea.Cmd {
	m.stopSignIn()
	m.signingIn = false
	m.cancelSignIn = nil
	m.authURL = ""

	switch outcome.Kind {
	case session.Success:
		m.authErr = ""
		return m.enterList()
	case session.Cancelled:
	default:
		m.authErr = outcome.Message
	}
	return nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.dialog != nil {
		return m, m.updateDialog(msg)
	}
	if m.searching {
		return m, m.updateSearch(msg)
	}

	m.notice = ""
	rows := m.rows()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.cursor++
	case "k", "up":
		m.cursor--
	case " ":
		if t, ok := m.selected(rows); ok {
			m.tasks.ToggleStatus(t.ID)
		}
	case "a":
		m.dialog = newDialog(nil)
	case "e":
		if t, ok := m.selected(rows); ok {
			m.dialog = newDialog(&t)
		}
	case "d":
		if t, ok := m.selected(rows); ok && m.tasks.Remove(t.ID) {
			m.notice = service.NoticeDeleted
		}
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "f":
		m.query.Filter = nextFilter(m.query.Filter)
		m.cursor = 0
	case "s":
		if m.query.Sort == service.SortPriority {
			m.query.Sort = service.SortDueDate
		} else {
			m.query.Sort = service.SortPriority
		}
	case "L":
		m.gate.SignOut(m.ctx)
		m.resetListState()
		m.screen = screenSignIn
		return m, nil
	}
	m.clampCursor()
	return m, nil
}

func (m *Model) updateDialog(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.dialog = nil
		m.notice = ""
		return nil
	case "tab", "down":
		m.dialog.move(1)
		return nil
	case "shift+tab", "up":
		m.dialog.move(-1)
		return nil
	case "enter":
		m.submitDialog()
		return nil
	}
	return m.dialog.update(msg)
}

// submitDialog saves the form. A missing title keeps the dialog open.
func (m *Model) submitDialog() {
	d := m.dialog.draft()
	if m.dialog.editing() {
		if err := m.tasks.Update(m.dialog.editingID, d); errors.Is(err, service.ErrTitleRequired) {
			m.notice = service.NoticeTitleRequired
			return
		}
		m.notice = service.NoticeUpdated
	} else {
		task, err := m.tasks.Add(d)
		if errors.Is(err, service.ErrTitleRequired) {
			m.notice = service.NoticeTitleRequired
			return
		}
		m.log.Debug("task added", "id", task.ID)
		m.notice = service.NoticeAdded
	}
	m.dialog = nil
	m.clampCursor()
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.query.Search = ""
		m.clampCursor()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query.Search = m.search.Value()
	m.cursor = 0
	return cmd
}

// resetListState drops UI state on sign-out. The store stays loaded.
func (m *Model) resetListState() {
	m.query = service.Query{Filter: service.FilterAll, Sort: service.SortDueDate}
	m.search.SetValue("")
	m.search.Blur()
	m.searching = false
	m.dialog = nil
	m.notice = ""
	m.cursor = 0
}

// rows is the current view of the collection.
func (m *Model) rows() []service.Task {
	if m.tasks == nil {
		return nil
	}
	return m.tasks.View(m.query)
}

func (m *Model) selected(rows []service.Task) (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(rows) {
		return service.Task{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func nextFilter(f service.Filter) service.Filter {
	switch f {
	case service.FilterAll:
		return service.FilterOpen
	case service.FilterOpen:
		return service.FilterComplete
	default:
		return service.FilterAll
	}
}
