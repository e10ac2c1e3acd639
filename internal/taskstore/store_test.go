package taskstore_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gtodo/internal/service"
	"gtodo/internal/taskstore"
	"gtodo/internal/testutil"
)

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newStore(t *testing.T) (*taskstore.Store, *testutil.FakeStore) {
	t.Helper()
	kv := testutil.NewFakeStore()
	s := taskstore.Open(context.Background(), kv, taskstore.WithIDGenerator(sequentialIDs()))
	return s, kv
}

func flush(t *testing.T, s *taskstore.Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
}

func TestAdd_AppendsOpenTask(t *testing.T) {
	s, _ := newStore(t)

	task, err := s.Add(service.Draft{Title: "Buy milk", DueDate: "2024-01-01", Priority: service.PriorityHigh})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != service.StatusOpen {
		t.Errorf("expected open, got %q", task.Status)
	}
	if task.ID != "id-1" {
		t.Errorf("expected generated id, got %q", task.ID)
	}

	if _, err := s.Add(service.Draft{Title: "Second"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tasks := s.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[1].Title != "Second" {
		t.Errorf("expected insertion order, got %q last", tasks[1].Title)
	}
	if tasks[1].Priority != service.PriorityMedium {
		t.Errorf("expected missing priority to default to medium, got %q", tasks[1].Priority)
	}
}

func TestAdd_EmptyTitleRejected(t *testing.T) {
	s, kv := newStore(t)

	_, err := s.Add(service.Draft{Title: ""})
	if !errors.Is(err, service.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if err.Error() != "Title is required" {
		t.Errorf("expected notice text, got %q", err.Error())
	}
	if len(s.Tasks()) != 0 {
		t.Error("expected collection unchanged")
	}
	flush(t, s)
	if kv.Writes(taskstore.TasksKey) != 0 {
		t.Error("expected no save for rejected add")
	}
}

func TestUpdate(t *testing.T) {
	s, _ := newStore(t)
	task, _ := s.Add(service.Draft{Title: "Old", Description: "d", Priority: service.PriorityLow})
	s.ToggleStatus(task.ID)

	err := s.Update(task.ID, service.Draft{Title: "New", Description: "", DueDate: "2025-02-03", Priority: service.PriorityHigh})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := s.Get(task.ID)
	if !ok {
		t.Fatal("task disappeared")
	}
	want := service.Task{
		ID:          task.ID,
		Title:       "New",
		Description: "",
		DueDate:     "2025-02-03",
		Status:      service.StatusComplete,
		Priority:    service.PriorityHigh,
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestUpdate_EmptyTitleRejected(t *testing.T) {
	s, _ := newStore(t)
	task, _ := s.Add(service.Draft{Title: "Keep"})

	if err := s.Update(task.ID, service.Draft{Title: ""}); !errors.Is(err, service.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	got, _ := s.Get(task.ID)
	if got.Title != "Keep" {
		t.Errorf("expected title unchanged, got %q", got.Title)
	}
}

func TestUpdate_UnknownIDIsNoop(t *testing.T) {
	s, _ := newStore(t)
	s.Add(service.Draft{Title: "A"})
	before := s.Tasks()

	if err := s.Update("missing", service.Draft{Title: "B"}); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	after := s.Tasks()
	if len(after) != 1 || after[0] != before[0] {
		t.Errorf("expected collection unchanged, got %+v", after)
	}
}

func TestToggleStatus_IsItsOwnInverse(t *testing.T) {
	s, _ := newStore(t)
	task, _ := s.Add(service.Draft{Title: "A"})

	if !s.ToggleStatus(task.ID) {
		t.Fatal("expected toggle to find task")
	}
	got, _ := s.Get(task.ID)
	if got.Status != service.StatusComplete {
		t.Fatalf("expected complete, got %q", got.Status)
	}
	s.ToggleStatus(task.ID)
	got, _ = s.Get(task.ID)
	if got.Status != service.StatusOpen {
		t.Errorf("expected open after second toggle, got %q", got.Status)
	}

	if s.ToggleStatus("missing") {
		t.Error("expected toggle of unknown id to report false")
	}
}

func TestRemove_Idempotent(t *testing.T) {
	s, _ := newStore(t)
	a, _ := s.Add(service.Draft{Title: "A"})
	s.Add(service.Draft{Title: "B"})

	if !s.Remove(a.ID) {
		t.Fatal("expected first remove to succeed")
	}
	if s.Remove(a.ID) {
		t.Error("expected second remove to be a no-op")
	}
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "B" {
		t.Errorf("expected only B left, got %+v", tasks)
	}
}

func TestTasks_ReturnsCopy(t *testing.T) {
	s, _ := newStore(t)
	s.Add(service.Draft{Title: "A"})

	tasks := s.Tasks()
	tasks[0].Title = "mutated"

	if s.Tasks()[0].Title != "A" {
		t.Error("expected store to be unaffected by caller mutation")
	}
}

func TestScenario_BuyMilk(t *testing.T) {
	s, kv := newStore(t)

	task, err := s.Add(service.Draft{Title: "Buy milk", DueDate: "2024-01-01", Priority: service.PriorityHigh})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if len(s.Tasks()) != 1 || task.Status != service.StatusOpen {
		t.Fatalf("expected one open task, got %+v", s.Tasks())
	}

	s.ToggleStatus(task.ID)
	got, _ := s.Get(task.ID)
	if got.Status != service.StatusComplete {
		t.Fatalf("expected complete, got %q", got.Status)
	}

	view := s.View(service.Query{Filter: service.FilterComplete, Search: "milk", Sort: service.SortDueDate})
	if len(view) != 1 || view[0].ID != task.ID {
		t.Fatalf("expected exactly the milk task, got %+v", view)
	}

	s.Remove(task.ID)
	if len(s.Tasks()) != 0 {
		t.Fatalf("expected empty collection, got %+v", s.Tasks())
	}

	flush(t, s)
	if v, _ := kv.Value(taskstore.TasksKey); v != "[]" {
		t.Errorf("expected persisted empty array, got %q", v)
	}
}

func TestLoad_AbsentIsEmpty(t *testing.T) {
	s, _ := newStore(t)
	if len(s.Tasks()) != 0 {
		t.Error("expected empty collection")
	}
}

func TestLoad_ReadFailureIsEmpty(t *testing.T) {
	kv := testutil.NewFakeStore()
	kv.Put(taskstore.TasksKey, `[{"id":"1","title":"A","status":"open","priority":"low"}]`)
	kv.GetErr = errors.New("io error")

	s := taskstore.Open(context.Background(), kv)
	if len(s.Tasks()) != 0 {
		t.Error("expected empty collection after failed read")
	}
}

func TestLoad_CorruptValueIsEmpty(t *testing.T) {
	kv := testutil.NewFakeStore()
	kv.Put(taskstore.TasksKey, `{"not":"an array"}`)

	s := taskstore.Open(context.Background(), kv)
	if len(s.Tasks()) != 0 {
		t.Error("expected empty collection after unparsable value")
	}
}

func TestRoundTrip(t *testing.T) {
	kv := testutil.NewFakeStore()
	s := taskstore.Open(context.Background(), kv, taskstore.WithIDGenerator(sequentialIDs()))

	s.Add(service.Draft{Title: "A", Description: "first", DueDate: "2024-05-01", Priority: service.PriorityLow})
	b, _ := s.Add(service.Draft{Title: "B", Priority: service.PriorityHigh})
	s.Add(service.Draft{Title: "C", DueDate: "not-a-date"})
	s.ToggleStatus(b.ID)
	flush(t, s)

	reloaded := taskstore.Open(context.Background(), kv)
	want := s.Tasks()
	got := reloaded.Tasks()
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("task %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestSave_PersistsAfterEveryMutation(t *testing.T) {
	s, kv := newStore(t)

	a, _ := s.Add(service.Draft{Title: "A"})
	flush(t, s)
	s.ToggleStatus(a.ID)
	flush(t, s)
	s.Update(a.ID, service.Draft{Title: "A2"})
	flush(t, s)
	s.Remove(a.ID)
	flush(t, s)

	if n := kv.Writes(taskstore.TasksKey); n != 4 {
		t.Errorf("expected 4 writes, got %d", n)
	}
}

func TestSave_LastWriteWins(t *testing.T) {
	kv := testutil.NewFakeStore()
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	kv.SetHook = func(key, value string) {
		once.Do(func() { close(started) })
		<-release
	}

	s := taskstore.Open(context.Background(), kv, taskstore.WithIDGenerator(sequentialIDs()))

	s.Add(service.Draft{Title: "A"})
	<-started // first write is now in flight and blocked

	s.Add(service.Draft{Title: "B"})
	s.Add(service.Draft{Title: "C"})
	s.Add(service.Draft{Title: "D"})

	close(release)
	flush(t, s)

	if n := kv.Writes(taskstore.TasksKey); n != 2 {
		t.Errorf("expected overlapping saves to coalesce into 2 writes, got %d", n)
	}
	v, _ := kv.Value(taskstore.TasksKey)
	tasks, _, err := taskstore.DecodeCollection(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(tasks) != 4 {
		t.Errorf("expected last snapshot with 4 tasks, got %d", len(tasks))
	}
}

func TestSave_FailureNotSurfaced(t *testing.T) {
	kv := testutil.NewFakeStore()
	kv.SetErr = errors.New("disk full")
	s := taskstore.Open(context.Background(), kv)

	if _, err := s.Add(service.Draft{Title: "A"}); err != nil {
		t.Fatalf("expected add to succeed despite storage failure, got %v", err)
	}
	flush(t, s)
	if len(s.Tasks()) != 1 {
		t.Error("expected in-memory state kept")
	}
}

func TestFlush_ContextDone(t *testing.T) {
	kv := testutil.NewFakeStore()
	release := make(chan struct{})
	defer close(release)
	kv.SetHook = func(key, value string) { <-release }

	s := taskstore.Open(context.Background(), kv)
	s.Add(service.Draft{Title: "A"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.Flush(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
