package tui

import (
	"fmt"
	"strings"

	"gtodo/internal/output"
	"gtodo/internal/service"
)

func (m *Model) View() string {
	switch m.screen {
	case screenSignIn:
		return m.signInView()
	case screenList:
		return m.listView()
	}
	return "Loading...\n"
}

func (m *Model) signInView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in to gtodo") + "\n\n")
	if m.authErr != "" {
		b.WriteString(errorStyle.Render(m.authErr) + "\n\n")
	}
	if m.signingIn {
		b.WriteString("Signing in...\n\n")
		if m.authURL != "" {
			b.WriteString("Open this URL in your browser:\n")
			b.WriteString(m.authURL + "\n\n")
		}
		b.WriteString(helpStyle.Render("esc: cancel") + "\n")
		return b.String()
	}
	b.WriteString(helpStyle.Render("enter: sign in with Google • q: quit") + "\n")
	return b.String()
}

func (m *Model) listView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks") + "\n")
	b.WriteString(helpStyle.Render(m.queryLine()) + "\n\n")

	if m.dialog != nil {
		b.WriteString(m.dialog.view() + "\n")
		if m.notice != "" {
			b.WriteString(errorStyle.Render(m.notice) + "\n")
		}
		return b.String()
	}

	if m.searching || m.query.Search != "" {
		b.WriteString(m.search.View() + "\n\n")
	}

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString("  No tasks yet\n")
		b.WriteString(helpStyle.Render("  Add a task to get started!") + "\n")
	}
	for i, t := range rows {
		b.WriteString(m.row(i, t) + "\n")
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n")
	}
	b.WriteString(helpStyle.Render(
		"j/k: move • space: toggle • a: add • e: edit • d: delete • /: search • f: filter • s: sort • L: logout • q: quit") + "\n")
	return b.String()
}

func (m *Model) queryLine() string {
	sortLabel := "due date"
	if m.query.Sort == service.SortPriority {
		sortLabel = "priority"
	}
	return fmt.Sprintf("Filter: %s • Sort: %s", m.query.Filter, sortLabel)
}

func (m *Model) row(i int, t service.Task) string {
	cursor := "  "
	if i == m.cursor {
		cursor = "> "
	}

	title := t.Title
	if t.Status == service.StatusComplete {
		title = doneStyle.Render(title)
	} else if i == m.cursor {
		title = selectedStyle.Render(title)
	}

	due := t.DueDate
	if due == "" {
		due = output.NoDueDate
	}
	line := fmt.Sprintf("%s[%s] %s  %s · due %s",
		cursor, output.StatusMark(t.Status), title, priorityStyle(string(t.Priority)).Render(string(t.Priority)), due)
	if desc := strings.TrimSpace(t.Description); desc != "" {
		line += "\n      " + helpStyle.Render(desc)
	}
	return line
}
