package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/billing"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/schemas"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnauthorized indicates a protected handler ran without an authenticated user
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "unauthorized"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch, *ErrUnauthorized:
		return http.StatusUnauthorized
	case *ErrUserNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	}

	var (
		assistErr   *assist.Error
		requestErr  *billing.RequestError
		providerErr *billing.ProviderError
		changeErr   *editor.ChangeError
		remoteErr   *editor.RemoteError
		draftErr    *editor.DraftError
		shapeErr    *schemas.ValidationError
		exportErr   *export.Error
		tooLarge    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, editor.ErrItemNotFound), errors.Is(err, editor.ErrResumeNotFound):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrNoRemote), errors.Is(err, billing.ErrNotConfigured), errors.Is(err, export.ErrNoConverter):
		return http.StatusServiceUnavailable
	case errors.As(err, &assistErr):
		if errors.Is(err, assist.ErrInvalidRequest) {
			return http.StatusBadRequest
		}
		switch {
		case errors.Is(err, llm.ErrUnavailable):
			return http.StatusServiceUnavailable
		case errors.Is(err, llm.ErrBlocked):
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadGateway
	case errors.As(err, &requestErr), errors.As(err, &changeErr), errors.As(err, &shapeErr):
		return http.StatusBadRequest
	case errors.As(err, &providerErr), errors.As(err, &remoteErr), errors.As(err, &exportErr):
		return http.StatusBadGateway
	case errors.As(err, &draftErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the text shown to the client for err. Internal failures are not
// described.
func publicMessage(err error, status int) string {
	var assistErr *assist.Error
	if errors.As(err, &assistErr) {
		return assistErr.Message
	}
	switch status {
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusBadGateway:
		return "an upstream service failed, please try again"
	case http.StatusRequestEntityTooLarge:
		return "request body too large"
	}
	return err.Error()
}
