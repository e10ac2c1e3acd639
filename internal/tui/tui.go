package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"gtodo/internal/kvstore"
	"gtodo/internal/session"
)

// flushTimeout bounds the wait for pending writes on exit.
const flushTimeout = 10 * time.Second

// Options configures Run.
type Options struct {
	// Store holds the session marker.
	Store kvstore.Store

	// Provider builds the sign-in flow. announce shows the authorization
	// URL on the sign-in screen.
	Provider func(announce func(authURL string) error) session.Provider

	// Open loads the task store after sign-in.
	Open OpenFunc

	Log *log.Logger
}

// Run shows the sign-in screen or, with a session, the task list, until the
// user quits.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, nil, opts.Open, opts.Log)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	var provider session.Provider
	if opts.Provider != nil {
		provider = opts.Provider(func(authURL string) error {
			program.Send(authURLMsg(authURL))
			return nil
		})
	}
	m.gate = session.NewGate(opts.Store, provider, m.log)

	_, err := program.Run()
	m.stopSignIn()

	if m.tasks != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if ferr := m.tasks.Flush(flushCtx); ferr != nil {
			m.log.Warn("pending writes not flushed", "err", ferr)
		}
	}
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
