// Package editor keeps the in-progress resume of a user in sync with the draft store and
// the remote document store.
package editor

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/drafts"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
	"go.uber.org/zap"
)

// State is where the current content came from
type State string

// Editor states
const (
	StateEmpty          State = "empty"
	StateDraftRestored  State = "draft_restored"
	StatePrefillApplied State = "prefill_applied"
	StateRemoteLoaded   State = "remote_loaded"
	StateEditing        State = "editing"
)

const processedFlag = "true"

// DefaultTitle names resumes saved without a title
const DefaultTitle = "Untitled Resume"

// RemoteStore is the authoritative document store. GetResume and UpdateResume return
// nil, nil when the resume does not exist for the user.
type RemoteStore interface {
	GetResume(ctx context.Context, userID, resumeID uuid.UUID) (*types.Resume, error)
	CreateResume(ctx context.Context, userID uuid.UUID, title string, content *types.ResumeContent, display types.DisplayConfig) (*types.Resume, error)
	UpdateResume(ctx context.Context, userID, resumeID uuid.UUID, title string, content *types.ResumeContent, display types.DisplayConfig) (*types.Resume, error)
}

// Snapshot is a copy of the editor state safe to hand out
type Snapshot struct {
	State     State                `json:"state"`
	ResumeID  *uuid.UUID           `json:"resume_id,omitempty"`
	Title     string               `json:"title"`
	Content   *types.ResumeContent `json:"content"`
	Display   types.DisplayConfig  `json:"display"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Saved reports whether the editor is bound to a remote resume
func (s Snapshot) Saved() bool {
	return s.ResumeID != nil
}

// Editor holds one user's in-progress resume. All methods are safe for concurrent use.
type Editor struct {
	mu      sync.Mutex
	userID  uuid.UUID
	drafts  drafts.Store
	remote  RemoteStore
	logger  *zap.Logger
	now     func() time.Time
	state   State
	content *types.ResumeContent
	display types.DisplayConfig
	title   string
	// resumeID is nil while the resume is unsaved
	resumeID  *uuid.UUID
	updatedAt time.Time
}

// New creates an editor in the Empty state. store must already be scoped to the user.
func New(userID uuid.UUID, store drafts.Store, remote RemoteStore, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Editor{
		userID: userID,
		drafts: store,
		remote: remote,
		logger: logger.With(zap.String("user_id", userID.String())),
		now:    time.Now,
	}
	e.resetLocked()
	return e
}

func (e *Editor) resetLocked() {
	e.state = StateEmpty
	e.content = types.NewResumeContent()
	e.display = resume.DefaultDisplayConfig()
	e.title = ""
	e.resumeID = nil
	e.updatedAt = e.now()
}

func (e *Editor) snapshotLocked() Snapshot {
	s := Snapshot{
		State:     e.state,
		Title:     e.title,
		Content:   e.content.Clone(),
		Display:   e.display,
		UpdatedAt: e.updatedAt,
	}
	if e.resumeID != nil {
		id := *e.resumeID
		s.ResumeID = &id
	}
	return s
}

// Snapshot returns a copy of the current state
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Init loads the starting content: a local draft wins over a pending prefill, which wins
// over defaults. A draft that does not parse is deleted and the next source is used.
func (e *Editor) Init(ctx context.Context) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetLocked()

	if content, ok := e.restoreDraft(ctx); ok {
		e.content = content
		e.state = StateDraftRestored
		return e.snapshotLocked()
	}

	if content, ok := e.consumePrefill(ctx); ok {
		e.content = content
		e.state = StatePrefillApplied
		return e.snapshotLocked()
	}

	return e.snapshotLocked()
}

func (e *Editor) restoreDraft(ctx context.Context) (*types.ResumeContent, bool) {
	data, err := e.drafts.Get(ctx, drafts.KeyDraft)
	if err != nil {
		e.logger.Warn("failed to read draft", zap.Error(err))
		return nil, false
	}
	if data == nil {
		return nil, false
	}

	content, err := resume.ValidateContent(data)
	if err != nil {
		e.logger.Warn("discarding unreadable draft", zap.Error(err))
		if err := e.drafts.Delete(ctx, drafts.KeyDraft); err != nil {
			e.logger.Warn("failed to delete unreadable draft", zap.Error(err))
		}
		return nil, false
	}
	return content, true
}

// consumePrefill applies a pending prefill payload once. Every list item gets a fresh id,
// the result becomes the draft, and the payload is marked processed and removed.
func (e *Editor) consumePrefill(ctx context.Context) (*types.ResumeContent, bool) {
	processed, err := e.drafts.Get(ctx, drafts.KeyPrefillProcessed)
	if err != nil {
		e.logger.Warn("failed to read prefill flag", zap.Error(err))
		return nil, false
	}
	if string(processed) == processedFlag {
		return nil, false
	}

	data, err := e.drafts.Get(ctx, drafts.KeyPrefill)
	if err != nil {
		e.logger.Warn("failed to read prefill", zap.Error(err))
		return nil, false
	}
	if data == nil {
		return nil, false
	}

	content, err := resume.ValidateContent(data)
	if err != nil {
		e.logger.Warn("discarding unreadable prefill", zap.Error(err))
		if err := e.drafts.Delete(ctx, drafts.KeyPrefill); err != nil {
			e.logger.Warn("failed to delete unreadable prefill", zap.Error(err))
		}
		return nil, false
	}
	resume.ReassignIDs(content)

	if err := e.writeDraft(ctx, content); err != nil {
		e.logger.Warn("failed to write draft from prefill", zap.Error(err))
	}
	if err := e.drafts.Set(ctx, drafts.KeyPrefillProcessed, []byte(processedFlag)); err != nil {
		e.logger.Warn("failed to mark prefill processed", zap.Error(err))
	}
	if err := e.drafts.Delete(ctx, drafts.KeyPrefill); err != nil {
		e.logger.Warn("failed to delete consumed prefill", zap.Error(err))
	}
	return content, true
}

// SetPrefill stores a one-time import payload to be applied by the next Init.
// The payload must be a JSON object; its shape is checked when it is applied.
// It reports true when a readable local draft exists: that draft wins at Init, so the
// prefill stays pending until the draft is gone.
func (e *Editor) SetPrefill(ctx context.Context, payload []byte) (bool, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil {
		return false, &ChangeError{Op: "prefill", Message: "payload must be a JSON object", Cause: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.drafts.Set(ctx, drafts.KeyPrefill, payload); err != nil {
		return false, &DraftError{Op: "prefill", Cause: err}
	}
	if err := e.drafts.Delete(ctx, drafts.KeyPrefillProcessed); err != nil {
		return false, &DraftError{Op: "prefill", Cause: err}
	}
	return e.hasDraftLocked(ctx), nil
}

func (e *Editor) hasDraftLocked(ctx context.Context) bool {
	data, err := e.drafts.Get(ctx, drafts.KeyDraft)
	if err != nil || data == nil {
		return false
	}
	_, err = resume.ValidateContent(data)
	return err == nil
}

// LoadRemote replaces the current state with a saved resume and binds the editor to it
func (e *Editor) LoadRemote(ctx context.Context, resumeID uuid.UUID) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.remote == nil {
		return e.snapshotLocked(), ErrNoRemote
	}

	r, err := e.remote.GetResume(ctx, e.userID, resumeID)
	if err != nil {
		return e.snapshotLocked(), &RemoteError{Op: "load", Cause: err}
	}
	if r == nil {
		return e.snapshotLocked(), ErrResumeNotFound
	}

	content := r.Content.Clone()
	resume.NormalizeContent(content)

	id := r.ID
	e.content = content
	e.display = resume.ResolveDisplayConfig(r.Display)
	e.title = r.Title
	e.resumeID = &id
	e.state = StateRemoteLoaded
	e.updatedAt = r.UpdatedAt
	return e.snapshotLocked(), nil
}

// Apply performs one edit. The in-memory state is updated first; when the resume is
// unsaved the full content is then written to the draft store. A failed draft write is
// returned as *DraftError with the edit kept.
func (e *Editor) Apply(ctx context.Context, ch Change) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch ch.Op {
	case OpSetDisplay:
		if ch.Display == nil {
			return e.snapshotLocked(), &ChangeError{Op: ch.Op, Message: "display is required"}
		}
		e.display = resume.ResolveDisplayConfig(*ch.Display)
	case OpSetTitle:
		e.title = strings.TrimSpace(ch.Value)
	default:
		next := e.content.Clone()
		if err := applyContent(next, ch); err != nil {
			return e.snapshotLocked(), err
		}
		e.content = next
	}

	e.state = StateEditing
	e.updatedAt = e.now()

	if e.resumeID == nil && ch.touchesContent() {
		if err := e.writeDraft(ctx, e.content); err != nil {
			e.logger.Warn("draft write failed", zap.String("op", string(ch.Op)), zap.Error(err))
			return e.snapshotLocked(), err
		}
	}
	return e.snapshotLocked(), nil
}

func (e *Editor) writeDraft(ctx context.Context, content *types.ResumeContent) error {
	data, err := json.Marshal(content)
	if err != nil {
		return &DraftError{Op: "encode", Cause: err}
	}
	if err := e.drafts.Set(ctx, drafts.KeyDraft, data); err != nil {
		return &DraftError{Op: "write", Cause: err}
	}
	return nil
}

// Save persists the resume remotely. An unsaved resume is created, the editor is bound
// to the new id and the draft is cleared; a saved one is updated. A blank title keeps the
// current one. display may be nil to keep the current display configuration.
func (e *Editor) Save(ctx context.Context, title string, display *types.DisplayConfig) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.remote == nil {
		return e.snapshotLocked(), ErrNoRemote
	}

	// A save that has started completes even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	nextTitle := e.title
	if t := strings.TrimSpace(title); t != "" {
		nextTitle = t
	}
	if nextTitle == "" {
		nextTitle = defaultTitle(e.content)
	}
	nextDisplay := e.display
	if display != nil {
		nextDisplay = resume.ResolveDisplayConfig(*display)
	}

	if e.resumeID == nil {
		created, err := e.remote.CreateResume(ctx, e.userID, nextTitle, e.content, nextDisplay)
		if err != nil {
			return e.snapshotLocked(), &RemoteError{Op: "create", Cause: err}
		}
		id := created.ID
		e.resumeID = &id
		e.title = created.Title
		e.display = nextDisplay
		e.updatedAt = created.UpdatedAt
		e.logger.Info("resume created", zap.String("resume_id", id.String()))

		if err := e.drafts.Delete(ctx, drafts.KeyDraft); err != nil {
			e.logger.Warn("failed to clear draft after save", zap.Error(err))
		}
		return e.snapshotLocked(), nil
	}

	updated, err := e.remote.UpdateResume(ctx, e.userID, *e.resumeID, nextTitle, e.content, nextDisplay)
	if err != nil {
		return e.snapshotLocked(), &RemoteError{Op: "update", Cause: err}
	}
	if updated == nil {
		return e.snapshotLocked(), ErrResumeNotFound
	}
	e.title = updated.Title
	e.display = nextDisplay
	e.updatedAt = updated.UpdatedAt
	return e.snapshotLocked(), nil
}

// Reset starts a new resume: the draft and any prefill are cleared and the editor returns
// to the Empty state. Store failures are reported after the reset has happened.
func (e *Editor) Reset(ctx context.Context) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetLocked()

	var firstErr error
	for _, key := range []string{drafts.KeyDraft, drafts.KeyPrefill, drafts.KeyPrefillProcessed} {
		if err := e.drafts.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = &DraftError{Op: "reset", Cause: err}
		}
	}
	return e.snapshotLocked(), firstErr
}

// Preview renders the current state
func (e *Editor) Preview(mode rendering.Mode) (*rendering.Output, error) {
	s := e.Snapshot()
	return rendering.Render(s.Content, s.Display, rendering.Options{Mode: mode, Title: s.Title})
}

func defaultTitle(c *types.ResumeContent) string {
	if name := strings.TrimSpace(c.PersonalInfo.Name); name != "" {
		return name + " - Resume"
	}
	return DefaultTitle
}
