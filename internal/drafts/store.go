// Package drafts provides the per-user key/value store that holds unsaved editor state.
package drafts

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Well-known draft keys
const (
	KeyDraft            = "draft-resume-data"
	KeyPrefill          = "prefill-data"
	KeyPrefillProcessed = "prefill-data-processed"
)

// Store is a whole-value key/value store. Writes overwrite; the last write wins.
// Get returns nil, nil when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// StoreError wraps a failure of the underlying store
type StoreError struct {
	Op    string
	Key   string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("draft store %s %s: %v", e.Op, e.Key, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key
func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Len returns the number of stored keys
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// scoped prefixes every key with a user namespace
type scoped struct {
	store  Store
	prefix string
}

// Scoped returns a view of store whose keys live under the given user's namespace
func Scoped(store Store, userID uuid.UUID) Store {
	return &scoped{store: store, prefix: "user:" + userID.String() + ":"}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.store.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.store.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, s.prefix+key)
}
