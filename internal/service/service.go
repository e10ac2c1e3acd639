// Package service defines the task types and the contract of the task store.
package service

import (
	"context"
	"errors"
)

// User-visible notices produced by the task operations.
const (
	NoticeTitleRequired = "Title is required"
	NoticeAdded         = "Task added"
	NoticeUpdated       = "Task updated"
	NoticeDeleted       = "Task deleted"
)

// ErrTitleRequired is returned by Add and Update when the draft has no title.
var ErrTitleRequired = errors.New(NoticeTitleRequired)

// Service is the task store contract used by every user surface.
// Mutations apply to memory immediately and are persisted in the background;
// callers never wait on storage except through Flush.
type Service interface {
	// Tasks returns a copy of the whole collection in insertion order.
	Tasks() []Task

	// Get returns the task with the given ID.
	Get(id string) (Task, bool)

	// View returns the filtered, searched and sorted projection of the
	// collection. It never mutates the collection.
	View(q Query) []Task

	// Add appends a new open task built from the draft.
	// Returns ErrTitleRequired if the title is empty.
	Add(d Draft) (Task, error)

	// Update replaces every field except ID and status of the task with the
	// given ID. Returns ErrTitleRequired if the title is empty; unknown IDs are
	// a silent no-op.
	Update(id string, d Draft) error

	// Remove deletes the task with the given ID. Reports whether it existed.
	Remove(id string) bool

	// ToggleStatus flips the task between open and complete.
	// Reports whether the task existed.
	ToggleStatus(id string) bool

	// Flush waits until every scheduled save has been written.
	Flush(ctx context.Context) error
}
