// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"gtodo/internal/service"
)

// NoDueDate is shown in place of an empty due date.
const NoDueDate = "N/A"

// FormatTask formats a task line for the list.
// Format: "{N:>4}  [{MARK}] {TITLE}  ({PRIORITY}, due {DUE})\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  [%s] %s  (%s, due %s)\n",
		num, StatusMark(task.Status), normalizeTitle(task.Title), task.Priority, dueDate(task.DueDate))
}

// FormatTaskDetail prints every field of a task, one per line.
func FormatTaskDetail(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "#%d %s\n", num, normalizeTitle(task.Title))
	fmt.Fprintf(w, "  id:          %s\n", task.ID)
	fmt.Fprintf(w, "  status:      %s\n", task.Status)
	fmt.Fprintf(w, "  priority:    %s\n", task.Priority)
	fmt.Fprintf(w, "  due:         %s\n", dueDate(task.DueDate))
	if desc := strings.TrimSpace(task.Description); desc != "" {
		fmt.Fprintf(w, "  description: %s\n", flatten(desc))
	}
}

// StatusMark returns the checkbox mark for a status. Unrecognized stored
// statuses are marked "?".
func StatusMark(s service.Status) string {
	switch s {
	case service.StatusOpen:
		return " "
	case service.StatusComplete:
		return "x"
	default:
		return "?"
	}
}

func dueDate(s string) string {
	if s == "" {
		return NoDueDate
	}
	return s
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = flatten(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
