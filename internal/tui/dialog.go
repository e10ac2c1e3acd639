package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gtodo/internal/service"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDueDate
	fieldPriority
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title",
	"Description",
	"Due Date (YYYY-MM-DD)",
	"Priority (low, medium, high)",
}

// dialog is the add/edit form. editingID is empty when adding.
type dialog struct {
	editingID string
	inputs    [fieldCount]textinput.Model
	focus     int
}

// newDialog opens the form, prefilled from task when editing.
func newDialog(task *service.Task) *dialog {
	d := &dialog{}
	for i := range d.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		d.inputs[i] = ti
	}

	draft := service.Draft{Priority: service.PriorityMedium}
	if task != nil {
		d.editingID = task.ID
		draft = service.DraftOf(*task)
	}
	d.inputs[fieldTitle].SetValue(draft.Title)
	d.inputs[fieldDescription].SetValue(draft.Description)
	d.inputs[fieldDueDate].SetValue(draft.DueDate)
	d.inputs[fieldPriority].SetValue(string(draft.Priority))
	d.inputs[fieldTitle].Focus()
	return d
}

func (d *dialog) editing() bool { return d.editingID != "" }

// move shifts focus by delta fields, wrapping around.
func (d *dialog) move(delta int) {
	d.inputs[d.focus].Blur()
	d.focus = (d.focus + delta + fieldCount) % fieldCount
	d.inputs[d.focus].Focus()
}

// update forwards a key to the focused input.
func (d *dialog) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	return cmd
}

// draft reads the form. An unrecognized priority becomes medium.
func (d *dialog) draft() service.Draft {
	return service.Draft{
		Title:       d.inputs[fieldTitle].Value(),
		Description: d.inputs[fieldDescription].Value(),
		DueDate:     strings.TrimSpace(d.inputs[fieldDueDate].Value()),
		Priority:    service.ParsePriority(d.inputs[fieldPriority].Value()),
	}
}

func (d *dialog) view() string {
	var b strings.Builder
	if d.editing() {
		b.WriteString(titleStyle.Render("Edit Task"))
	} else {
		b.WriteString(titleStyle.Render("Add Task"))
	}
	b.WriteString("\n\n")
	for i, in := range d.inputs {
		label := fieldLabels[i]
		if i == d.focus {
			label = selectedStyle.Render(label)
		}
		b.WriteString(label + "\n")
		b.WriteString(in.View() + "\n\n")
	}
	action := "Add"
	if d.editing() {
		action = "Update"
	}
	b.WriteString(helpStyle.Render("tab: next field • enter: " + action + " • esc: cancel"))
	return dialogStyle.Render(b.String())
}
