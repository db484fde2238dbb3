package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrItemNotFound is returned when a change targets an id that is not in the list
	ErrItemNotFound = errors.New("item not found")
	// ErrResumeNotFound is returned when the remote resume does not exist for the user
	ErrResumeNotFound = errors.New("resume not found")
	// ErrNoRemote is returned by Save when the editor has no remote store
	ErrNoRemote = errors.New("no remote store configured")
)

// ChangeError represents a change that could not be applied. State is left unchanged.
type ChangeError struct {
	Op      Op
	Message string
	Cause   error
}

func (e *ChangeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("change %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("change %s: %s", e.Op, e.Message)
}

func (e *ChangeError) Unwrap() error {
	return e.Cause
}

// DraftError represents a failed draft store write. The in-memory edit is kept.
type DraftError struct {
	Op    string
	Cause error
}

func (e *DraftError) Error() string {
	return fmt.Sprintf("draft %s failed: %v", e.Op, e.Cause)
}

func (e *DraftError) Unwrap() error {
	return e.Cause
}

// RemoteError represents a failed call to the remote document store
type RemoteError struct {
	Op    string
	Cause error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Cause)
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}
