package editor

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/drafts"
	"go.uber.org/zap"
)

// Registry holds the open editor of each user
type Registry struct {
	mu      sync.Mutex
	editors map[uuid.UUID]*Editor
	store   drafts.Store
	remote  RemoteStore
	logger  *zap.Logger
}

// NewRegistry creates a registry whose editors share store (scoped per user) and remote
func NewRegistry(store drafts.Store, remote RemoteStore, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		editors: make(map[uuid.UUID]*Editor),
		store:   store,
		remote:  remote,
		logger:  logger,
	}
}

// Open replaces the user's editor with a freshly initialized one
func (r *Registry) Open(ctx context.Context, userID uuid.UUID) (*Editor, Snapshot) {
	e := New(userID, drafts.Scoped(r.store, userID), r.remote, r.logger)
	snap := e.Init(ctx)

	r.mu.Lock()
	r.editors[userID] = e
	r.mu.Unlock()
	return e, snap
}

// Get returns the user's open editor
func (r *Registry) Get(userID uuid.UUID) (*Editor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.editors[userID]
	return e, ok
}

// GetOrOpen returns the user's editor, opening one when none exists
func (r *Registry) GetOrOpen(ctx context.Context, userID uuid.UUID) *Editor {
	if e, ok := r.Get(userID); ok {
		return e
	}
	e, _ := r.Open(ctx, userID)
	return e
}

// Close drops the user's editor. The draft is left in place.
func (r *Registry) Close(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.editors, userID)
}

// Len returns the number of open editors
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.editors)
}
