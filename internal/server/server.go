// Package server provides the HTTP REST API for the resume builder.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/billing"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/drafts"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	maxBodyBytes    = 1 << 20
	maxWebhookBytes = 64 << 10
)

// ResumeStore is the remote document store behind the resume endpoints and the editor
type ResumeStore interface {
	editor.RemoteStore
	ListResumes(ctx context.Context, userID uuid.UUID, limit int) ([]types.ResumeSummary, error)
	// DeleteResume reports false when the resume does not exist for the user
	DeleteResume(ctx context.Context, userID, resumeID uuid.UUID) (bool, error)
}

// Deps are the collaborators the server is assembled from. Assist and Billing may be
// nil, in which case their endpoints answer 503.
type Deps struct {
	Users   UserStore
	Resumes ResumeStore
	Drafts  drafts.Store
	Assist  *assist.Service
	Billing *billing.Service
	Export  *export.Service
	// Health reports whether backing services are reachable
	Health func(ctx context.Context) error
	Logger *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	logger      *zap.Logger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	validate    *validator.Validate

	resumes ResumeStore
	editors *editor.Registry
	assist  *assist.Service
	billing *billing.Service
	export  *export.Service
	health  func(ctx context.Context) error
}

// New creates a new server instance
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Users == nil || deps.Resumes == nil {
		return nil, errors.New("server needs a user store and a resume store")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := deps.Drafts
	if store == nil {
		store = drafts.NewMemoryStore()
	}
	exporter := deps.Export
	if exporter == nil {
		exporter = export.NewService(nil, nil, 0, logger)
	}

	passwordConfig, err := cfg.Password()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := cfg.JWT()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		logger:      logger,
		rateLimiter: ratelimit.NewLimiter(ratelimit.FromConfig(cfg.RateLimit)),
		jwtService:  NewJWTService(jwtConfig),
		userService: NewUserService(deps.Users, passwordConfig),
		validate:    validator.New(),
		resumes:     deps.Resumes,
		editors:     editor.NewRegistry(store, deps.Resumes, logger),
		assist:      deps.Assist,
		billing:     deps.Billing,
		export:      exporter,
		health:      deps.Health,
	}
	s.authHandler = NewAuthHandler(s.userService, s.jwtService, logger)

	mux := http.NewServeMux()
	s.routes(mux)

	corsOptions := cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	s.handler = metrics.Middleware(s.withRateLimit(s.withLogging(cors.Handler(corsOptions)(mux))))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second, // PDF export and model calls
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	// Accounts
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("PUT /auth/password", s.protect(s.handleUpdatePassword))
	mux.Handle("GET /auth/me", s.protect(s.handleMe))

	// Rendering
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("POST /render", s.handleRender)

	// Saved resumes
	mux.Handle("GET /resumes", s.protect(s.handleListResumes))
	mux.Handle("POST /resumes", s.protect(s.handleCreateResume))
	mux.Handle("GET /resumes/{id}", s.protect(s.handleGetResume))
	mux.Handle("PUT /resumes/{id}", s.protect(s.handleUpdateResume))
	mux.Handle("DELETE /resumes/{id}", s.protect(s.handleDeleteResume))
	mux.Handle("GET /resumes/{id}/preview", s.protect(s.handlePreviewResume))
	mux.Handle("GET /resumes/{id}/export.pdf", s.protect(s.handleExportResume))

	// Editor session
	mux.Handle("POST /editor", s.protect(s.handleOpenEditor))
	mux.Handle("GET /editor", s.protect(s.handleGetEditor))
	mux.Handle("PATCH /editor", s.protect(s.handleApplyChanges))
	mux.Handle("POST /editor/save", s.protect(s.handleSaveEditor))
	mux.Handle("POST /editor/reset", s.protect(s.handleResetEditor))
	mux.Handle("POST /editor/prefill", s.protect(s.handlePrefill))
	mux.Handle("GET /editor/preview", s.protect(s.handlePreviewEditor))

	// AI assist
	mux.Handle("POST /assist/summary", s.protect(s.handleAssistSummary))
	mux.Handle("POST /assist/bullets", s.protect(s.handleAssistBullets))
	mux.Handle("POST /assist/rewrite", s.protect(s.handleAssistRewrite))
	mux.Handle("POST /assist/skills", s.protect(s.handleAssistSkills))
	mux.Handle("POST /assist/tailor", s.protect(s.handleAssistTailor))
	mux.Handle("POST /assist/extract", s.protect(s.handleAssistExtract))

	// Billing
	mux.Handle("POST /billing/checkout", s.protect(s.handleCheckout))
	mux.Handle("POST /billing/portal", s.protect(s.handlePortal))
	mux.Handle("GET /billing/entitlement", s.protect(s.handleEntitlement))
	mux.HandleFunc("POST /billing/webhook", s.handleWebhook)
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.logger.Info("server stopped")
	return nil
}

// Close stops background work owned by the server
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// protect requires a valid bearer token
func (s *Server) protect(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
}

// userID returns the authenticated user. Only valid behind protect.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.GetUserID(r)
	if err != nil {
		s.writeError(w, r, &ErrUnauthorized{})
		return uuid.Nil, false
	}
	return id, true
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter remembers the response status for logging
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		}
		if sw.status >= http.StatusInternalServerError {
			s.logger.Warn("request completed", fields...)
			return
		}
		s.logger.Info("request completed", fields...)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// errorResponse writes an error JSON response
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status and a client-safe message
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields...)
	} else {
		s.logger.Debug("request rejected", fields...)
	}
	errorResponse(w, status, publicMessage(err, status))
}

// decode reads a JSON body into dst and validates it
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return validationError(err)
	}
	return nil
}

// pathID parses the {id} path value
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		retry := int(info.RetryAfter.Seconds())
		response["retry_after"] = retry
		w.Header().Set("Retry-After", strconv.Itoa(retry))
	}

	s.logger.Info("rate limit exceeded",
		zap.String("client", s.extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit))

	jsonResponse(w, http.StatusTooManyRequests, response)
}
