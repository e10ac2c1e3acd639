// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"gtodo/internal/session"
)

// FakeStore is an in-memory implementation of kvstore.Store for testing.
type FakeStore struct {
	mu     sync.Mutex
	data   map[string]string
	writes map[string]int

	// Error injection for testing
	GetErr    error
	SetErr    error
	RemoveErr error

	// SetHook, if set, runs before every Set with the key and value.
	// Tests use it to block or observe background writes.
	SetHook func(key, value string)
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		data:   make(map[string]string),
		writes: make(map[string]int),
	}
}

// Put stores a value directly, bypassing hooks and error injection.
func (f *FakeStore) Put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

// Value returns the stored value, bypassing error injection.
func (f *FakeStore) Value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// Writes returns how many successful Sets happened for key.
func (f *FakeStore) Writes(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes[key]
}

// Get implements kvstore.Store.
func (f *FakeStore) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return "", false, f.GetErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

// Set implements kvstore.Store.
func (f *FakeStore) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	hook := f.SetHook
	f.mu.Unlock()
	if hook != nil {
		hook(key, value)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetErr != nil {
		return f.SetErr
	}
	f.data[key] = value
	f.writes[key]++
	return nil
}

// Remove implements kvstore.Store.
func (f *FakeStore) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	delete(f.data, key)
	return nil
}

// FakeProvider is a scripted session.Provider.
// It returns Results in order and repeats the last one when exhausted.
type FakeProvider struct {
	mu      sync.Mutex
	results []session.Result
	calls   int
}

// NewFakeProvider creates a provider that answers with results in order.
func NewFakeProvider(results ...session.Result) *FakeProvider {
	return &FakeProvider{results: results}
}

// Authorize implements session.Provider.
func (p *FakeProvider) Authorize(ctx context.Context) session.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if len(p.results) == 0 {
		return session.Result{Kind: session.Cancelled}
	}
	i := p.calls - 1
	if i >= len(p.results) {
		i = len(p.results) - 1
	}
	return p.results[i]
}

// Calls returns how many times Authorize ran.
func (p *FakeProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
