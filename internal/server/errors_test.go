package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/billing"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/schemas"
)

func TestAccountErrorMessages(t *testing.T) {
	userID := uuid.MustParse("6f1c2a4e-0d7b-4c1e-9a57-3b2f8e9d1c00")
	tests := map[string]struct {
		err  error
		want string
	}{
		"duplicate email": {&ErrEmailAlreadyExists{Email: "ann@example.com"}, "email already registered: ann@example.com"},
		"bad login":       {&ErrInvalidCredentials{}, "invalid email or password"},
		"missing user":    {&ErrUserNotFound{UserID: userID}, "user not found: 6f1c2a4e-0d7b-4c1e-9a57-3b2f8e9d1c00"},
		"wrong password":  {&ErrPasswordMismatch{}, "current password is incorrect"},
		"bad field":       {&ErrValidation{Field: "email", Message: "invalid format"}, "validation error: email - invalid format"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.want, publicMessage(tt.err, HTTPStatus(tt.err)), "account errors are safe to show")
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "duplicate email",
			err:      &ErrEmailAlreadyExists{Email: "test@example.com"},
			expected: http.StatusConflict,
		},
		{
			name:     "bad login",
			err:      &ErrInvalidCredentials{},
			expected: http.StatusUnauthorized,
		},
		{
			name:     "wrong current password",
			err:      &ErrPasswordMismatch{},
			expected: http.StatusUnauthorized,
		},
		{
			name:     "unknown user",
			err:      &ErrUserNotFound{UserID: uuid.New()},
			expected: http.StatusNotFound,
		},
		{
			name:     "invalid field",
			err:      &ErrValidation{Field: "password", Message: "too short"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "assist request error",
			err:      &assist.Error{Op: "bullets", Message: "a role is required", Cause: assist.ErrInvalidRequest},
			expected: http.StatusBadRequest,
		},
		{
			name:     "assist provider down",
			err:      &assist.Error{Op: "summary", Message: "unavailable", Cause: fmt.Errorf("call: %w", llm.ErrUnavailable)},
			expected: http.StatusServiceUnavailable,
		},
		{
			name:     "assist prompt blocked",
			err:      &assist.Error{Op: "rewrite", Message: "declined", Cause: fmt.Errorf("call: %w", llm.ErrBlocked)},
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "assist provider failure",
			err:      &assist.Error{Op: "summary", Message: "failed", Cause: errors.New("500 from model")},
			expected: http.StatusBadGateway,
		},
		{
			name:     "billing request error",
			err:      &billing.RequestError{Message: "price id is required"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "billing provider error",
			err:      &billing.ProviderError{Op: "checkout", Cause: errors.New("stripe down")},
			expected: http.StatusBadGateway,
		},
		{
			name:     "billing not configured",
			err:      billing.ErrNotConfigured,
			expected: http.StatusServiceUnavailable,
		},
		{
			name:     "editor change error",
			err:      &editor.ChangeError{Op: editor.OpSetPersonal, Message: "unknown field"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "editor item not found",
			err:      &editor.ChangeError{Op: editor.OpRemoveItem, Message: "no such item", Cause: editor.ErrItemNotFound},
			expected: http.StatusNotFound,
		},
		{
			name:     "resume not found",
			err:      editor.ErrResumeNotFound,
			expected: http.StatusNotFound,
		},
		{
			name:     "remote store failure",
			err:      &editor.RemoteError{Op: "create", Cause: errors.New("connection refused")},
			expected: http.StatusBadGateway,
		},
		{
			name:     "draft store failure",
			err:      &editor.DraftError{Op: "write", Cause: errors.New("redis down")},
			expected: http.StatusServiceUnavailable,
		},
		{
			name:     "content shape error",
			err:      &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "skills", Message: "must be array"}}},
			expected: http.StatusBadRequest,
		},
		{
			name:     "pdf export disabled",
			err:      export.ErrNoConverter,
			expected: http.StatusServiceUnavailable,
		},
		{
			name:     "pdf conversion failed",
			err:      &export.Error{Op: "convert", Cause: errors.New("chrome crashed")},
			expected: http.StatusBadGateway,
		},
		{
			name:     "body too large",
			err:      &http.MaxBytesError{Limit: 10},
			expected: http.StatusRequestEntityTooLarge,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assistErr := &assist.Error{Op: "summary", Message: "the AI assistant is busy", Cause: errors.New("quota")}
	assert.Equal(t, "the AI assistant is busy", publicMessage(assistErr, HTTPStatus(assistErr)))

	internal := errors.New("pq: relation does not exist")
	assert.Equal(t, "internal server error", publicMessage(internal, HTTPStatus(internal)))

	reqErr := &billing.RequestError{Message: "unknown price"}
	assert.Contains(t, publicMessage(reqErr, HTTPStatus(reqErr)), "unknown price")
}
