// Package middleware authenticates API requests.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey struct{}

// ErrNoUser is returned by GetUserID outside an authenticated request.
var ErrNoUser = errors.New("user ID not found in request context")

// UserIDGetter is what a validated token yields.
type UserIDGetter interface {
	GetUserID() uuid.UUID
}

// TokenValidator checks a bearer token.
type TokenValidator interface {
	ValidateToken(token string) (UserIDGetter, error)
}

// TokenValidatorFunc adapts a plain function to TokenValidator.
type TokenValidatorFunc func(token string) (UserIDGetter, error)

func (f TokenValidatorFunc) ValidateToken(token string) (UserIDGetter, error) {
	return f(token)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// token's user on the request context.
func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}
			claims, err := tokens.ValidateToken(token)
			if err != nil {
				unauthorized(w)
				return
			}
			userID := claims.GetUserID()
			if userID == uuid.Nil {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// bearerToken extracts the token from "Bearer <token>"; the scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", false
	}
	return fields[1], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}

// WithUserID returns a copy of ctx carrying userID, as AuthMiddleware does.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// GetUserID returns the authenticated user, or ErrNoUser.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	userID, ok := r.Context().Value(contextKey{}).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoUser
	}
	return userID, nil
}
