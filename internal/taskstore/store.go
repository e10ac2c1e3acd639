// Package taskstore owns the task collection: it loads it from the key-value
// store, applies mutations in memory, persists after every mutation and
// derives filtered, searched and sorted views.
package taskstore

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"gtodo/internal/kvstore"
	"gtodo/internal/service"
)

// TasksKey is the key the serialized collection is stored under.
const TasksKey = "TASKS"

// Store implements service.Service over a kvstore.Store.
type Store struct {
	mu    sync.Mutex
	tasks []service.Task

	kv    kvstore.Store
	save  *saver
	log   *log.Logger
	newID func() string
}

var _ service.Service = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for storage diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New creates an empty store. Call Load to read the persisted collection.
func New(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		log:   log.New(io.Discard),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.save = newSaver(kv, TasksKey, s.log)
	return s
}

// Open creates a store and loads the persisted collection.
func Open(ctx context.Context, kv kvstore.Store, opts ...Option) *Store {
	s := New(kv, opts...)
	s.Load(ctx)
	return s
}

// Load replaces the in-memory collection with the persisted one.
// A missing value, a read failure or an unparsable value all leave the
// collection empty; failures are logged, never returned.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = nil

	data, ok, err := s.kv.Get(ctx, TasksKey)
	if err != nil {
		s.log.Warn("load failed, starting with no tasks", "err", err)
		return
	}
	if !ok {
		s.log.Debug("no stored tasks")
		return
	}

	tasks, issues, err := DecodeCollection(data)
	if err != nil {
		s.log.Warn("load failed, starting with no tasks", "err", err)
		return
	}
	for _, issue := range issues {
		switch issue.Kind {
		case IssueRejected, IssuePassedThrough:
			if issue.Field == "dueDate" {
				s.log.Debug("stored task", "issue", issue.String())
				continue
			}
			s.log.Warn("stored task", "issue", issue.String())
		default:
			s.log.Debug("stored task", "issue", issue.String())
		}
	}
	s.tasks = tasks
	s.log.Debug("loaded tasks", "count", len(tasks))
}

// Tasks implements service.Service.
func (s *Store) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get implements service.Service.
func (s *Store) Get(id string) (service.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return service.Task{}, false
}

// Add implements service.Service.
func (s *Store) Add(d service.Draft) (service.Task, error) {
	if d.Title == "" {
		return service.Task{}, service.ErrTitleRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := service.Task{
		ID:          s.newID(),
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Status:      service.StatusOpen,
		Priority:    service.ParsePriority(string(d.Priority)),
	}
	s.tasks = append(s.tasks, t)
	s.persistLocked()
	return t, nil
}

// Update implements service.Service.
func (s *Store) Update(id string, d service.Draft) error {
	if d.Title == "" {
		return service.ErrTitleRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	t := &s.tasks[i]
	t.Title = d.Title
	t.Description = d.Description
	t.DueDate = d.DueDate
	t.Priority = service.ParsePriority(string(d.Priority))
	s.persistLocked()
	return nil
}

// Remove implements service.Service.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.persistLocked()
	return true
}

// ToggleStatus implements service.Service.
// Anything that is not open (including an unrecognized stored status)
// becomes open.
func (s *Store) ToggleStatus(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	if s.tasks[i].Status == service.StatusOpen {
		s.tasks[i].Status = service.StatusComplete
	} else {
		s.tasks[i].Status = service.StatusOpen
	}
	s.persistLocked()
	return true
}

// View implements service.Service.
func (s *Store) View(q service.Query) []service.Task {
	return ApplyQuery(s.Tasks(), q)
}

// Flush implements service.Service.
func (s *Store) Flush(ctx context.Context) error {
	return s.save.wait(ctx)
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked schedules a save of the current collection. s.mu must be held.
func (s *Store) persistLocked() {
	data, err := EncodeCollection(s.tasks)
	if err != nil {
		s.log.Warn("encode failed, not saving", "err", err)
		return
	}
	s.save.schedule(data)
}

// ApplyQuery derives a view from tasks without modifying it:
// filter by status, then search title and description, then stable sort.
func ApplyQuery(tasks []service.Task, q service.Query) []service.Task {
	search := strings.ToLower(q.Search)

	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if q.Filter != "" && q.Filter != service.FilterAll && string(t.Status) != string(q.Filter) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		out = append(out, t)
	}

	switch q.Sort {
	case service.SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DueDate < out[j].DueDate
		})
	}
	return out
}
