package coauthor

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepository keeps co-authors in process memory. Keys are
// case-sensitive and List returns entries in insertion order.
type MemoryRepository struct {
	mu      sync.Mutex
	order   []string
	entries map[string]string
}

// NewMemoryRepository creates a repository seeded with entries, if any.
func NewMemoryRepository(entries ...Entry) *MemoryRepository {
	r := &MemoryRepository{entries: make(map[string]string)}
	for _, e := range entries {
		r.set(e.Key, e.Identity)
	}
	return r
}

func (r *MemoryRepository) set(key, identity string) {
	if _, ok := r.entries[key]; !ok {
		r.order = append(r.order, key)
	}
	r.entries[key] = identity
}

func (r *MemoryRepository) Get(_ context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.entries[key]
	return identity, ok, nil
}

func (r *MemoryRepository) Add(_ context.Context, key, identity string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.set(key, identity)
	return nil
}

func (r *MemoryRepository) Remove(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[key]; !ok {
		return nil
	}
	delete(r.entries, key)
	r.order = slices.DeleteFunc(r.order, func(k string) bool { return k == key })
	return nil
}

func (r *MemoryRepository) List(_ context.Context, full bool) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, 0, len(r.order))
	for _, k := range r.order {
		entries = append(entries, Entry{Key: k, Identity: r.entries[k]})
	}
	return renderEntries(entries, full), nil
}

// Len returns the number of stored entries.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
