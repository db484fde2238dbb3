package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	logger      *zap.Logger
}

// authRequest is a body that normalizes and validates itself.
type authRequest interface {
	Validate() error
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// decode reads and validates a request body, writing the error response itself
func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst authRequest) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := dst.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, validationError(err).Error())
		return false
	}
	return true
}

func (h *AuthHandler) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("auth request failed", zap.Error(err))
	}
	errorResponse(w, status, publicMessage(err, status))
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	jsonResponse(w, http.StatusCreated, types.LoginResponse{User: user, Token: token})
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.fail(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, types.LoginResponse{User: user, Token: token})
}

// UpdatePasswordWithUserID handles password update requests with an explicit user ID.
func (h *AuthHandler) UpdatePasswordWithUserID(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req types.UpdatePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	user, err := s.userService.Get(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// validationError converts validator errors into the first failing field.
func validationError(err error) *ErrValidation {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "body", Message: "invalid request"}
}
