// Package service defines the task types and the contract of the task store.
package service

import "strings"

// Status is the completion state of a task.
type Status string

const (
	StatusOpen     Status = "open"
	StatusComplete Status = "complete"
)

// Known reports whether s is one of the recognized statuses.
func (s Status) Known() bool {
	return s == StatusOpen || s == StatusComplete
}

// Priority is the importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority returns the priority named by s (case-insensitive, trimmed).
// Missing or unrecognized values are medium.
func ParsePriority(s string) Priority {
	p, ok := LookupPriority(s)
	if !ok {
		return PriorityMedium
	}
	return p
}

// LookupPriority is like ParsePriority but reports whether s was recognized.
func LookupPriority(s string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	}
	return "", false
}

// Rank orders priorities for sorting: high(0) < medium(1) < low(2).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Task represents a single to-do item.
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     string // "YYYY-MM-DD" or empty, never validated as a calendar date
	Status      Status
	Priority    Priority
}

// Draft holds the user-editable fields of a task.
type Draft struct {
	Title       string
	Description string
	DueDate     string
	Priority    Priority
}

// DraftOf returns a draft prefilled from t, as the edit form is.
func DraftOf(t Task) Draft {
	return Draft{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
	}
}

// Filter selects tasks by status.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterOpen     Filter = "open"
	FilterComplete Filter = "complete"
)

// ParseFilter parses a filter name. The empty string is FilterAll.
func ParseFilter(s string) (Filter, bool) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, true
	case FilterOpen:
		return FilterOpen, true
	case FilterComplete, "completed", "done":
		return FilterComplete, true
	}
	return "", false
}

// SortKey selects the view ordering.
type SortKey string

const (
	SortDueDate  SortKey = "dueDate"
	SortPriority SortKey = "priority"
)

// ParseSortKey parses a sort key name. The empty string is SortDueDate.
func ParseSortKey(s string) (SortKey, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "due", "duedate", "due-date":
		return SortDueDate, true
	case "priority", "prio":
		return SortPriority, true
	}
	return "", false
}

// Query describes a view of the collection: filter, then search, then sort.
type Query struct {
	Filter Filter
	Search string
	Sort   SortKey
}
