package taskstore

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"gtodo/internal/kvstore"
)

// saver persists snapshots of the collection in the background.
// It holds at most one pending snapshot: scheduling while a write is in
// flight replaces the pending one, so the last write always wins and writes
// never interleave.
type saver struct {
	kv  kvstore.Store
	key string
	log *log.Logger

	mu      sync.Mutex
	idle    *sync.Cond
	pending *string
	running bool
}

func newSaver(kv kvstore.Store, key string, logger *log.Logger) *saver {
	s := &saver{kv: kv, key: key, log: logger}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// schedule queues data for writing and returns immediately.
func (s *saver) schedule(data string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.log.Debug("save coalesced", "key", s.key)
	}
	s.pending = &data
	if !s.running {
		s.running = true
		go s.run()
	}
}

func (s *saver) run() {
	for {
		s.mu.Lock()
		if s.pending == nil {
			s.running = false
			s.idle.Broadcast()
			s.mu.Unlock()
			return
		}
		data := *s.pending
		s.pending = nil
		s.mu.Unlock()

		// Failures are not surfaced or retried; the next mutation saves again.
		if err := s.kv.Set(context.Background(), s.key, data); err != nil {
			s.log.Warn("save failed", "key", s.key, "err", err)
			continue
		}
		s.log.Debug("saved", "key", s.key, "bytes", len(data))
	}
}

// wait blocks until no write is pending or in flight, or ctx is done.
func (s *saver) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.mu.Lock()
		for s.running {
			s.idle.Wait()
		}
		s.mu.Unlock()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
