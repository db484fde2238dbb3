// Package billing connects users to a hosted subscription checkout and keeps their
// entitlement in sync with subscription webhooks.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
	"go.uber.org/zap"
)

// Handled webhook event types. Everything else is acknowledged and ignored.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// Event is a provider-neutral webhook event
type Event struct {
	ID             string
	Type           string
	UserID         uuid.UUID // zero when the event does not name the user
	CustomerID     string
	SubscriptionID string
	Status         string
}

// CheckoutParams describes a checkout session to create
type CheckoutParams struct {
	PriceID    string
	UserID     uuid.UUID
	Email      string
	CustomerID string
	SuccessURL string
	CancelURL  string
}

// Provider is the payment processor
type Provider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*types.CheckoutResponse, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	// ParseEvent verifies the signature of a webhook payload and decodes it
	ParseEvent(payload []byte, signature string) (*Event, error)
}

// EntitlementStore persists entitlements on the user record
type EntitlementStore interface {
	// GetEntitlement returns nil, nil when the user does not exist
	GetEntitlement(ctx context.Context, userID uuid.UUID) (*types.Entitlement, error)
	// FindUserByCustomer returns uuid.Nil, nil when no user has the customer id
	FindUserByCustomer(ctx context.Context, customerID string) (uuid.UUID, error)
	// SetEntitlement overwrites the stored entitlement
	SetEntitlement(ctx context.Context, ent types.Entitlement) error
}

// Config holds the redirect URLs of the hosted pages
type Config struct {
	SuccessURL string
	CancelURL  string
	ReturnURL  string
	// Prices limits checkout to these price ids when not empty
	Prices []string
}

// Service implements checkout, portal and webhook handling
type Service struct {
	provider Provider
	store    EntitlementStore
	config   Config
	logger   *zap.Logger
}

// NewService creates a billing service
func NewService(provider Provider, store EntitlementStore, config Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, store: store, config: config, logger: logger}
}

// CreateCheckout starts a subscription checkout for the user
func (s *Service) CreateCheckout(ctx context.Context, priceID string, userID uuid.UUID, email string) (*types.CheckoutResponse, error) {
	priceID = strings.TrimSpace(priceID)
	switch {
	case priceID == "":
		return nil, &RequestError{Message: "price id is required"}
	case userID == uuid.Nil:
		return nil, &RequestError{Message: "user id is required"}
	case strings.TrimSpace(email) == "":
		return nil, &RequestError{Message: "user email is required"}
	case !s.priceAllowed(priceID):
		return nil, &RequestError{Message: fmt.Sprintf("unknown price %q", priceID)}
	}

	ent, err := s.store.GetEntitlement(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entitlement: %w", err)
	}
	if ent == nil {
		return nil, &RequestError{Message: "user not found"}
	}

	resp, err := s.provider.CreateCheckoutSession(ctx, CheckoutParams{
		PriceID:    priceID,
		UserID:     userID,
		Email:      email,
		CustomerID: ent.CustomerID,
		SuccessURL: s.config.SuccessURL,
		CancelURL:  s.config.CancelURL,
	})
	if err != nil {
		return nil, &ProviderError{Op: "checkout", Cause: err}
	}
	s.logger.Info("checkout session created", zap.String("user_id", userID.String()), zap.String("session_id", resp.SessionID))
	return resp, nil
}

// CreatePortal returns the customer portal URL for a user with a billing account
func (s *Service) CreatePortal(ctx context.Context, userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", &RequestError{Message: "user id is required"}
	}
	ent, err := s.store.GetEntitlement(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load entitlement: %w", err)
	}
	if ent == nil || ent.CustomerID == "" {
		return "", &RequestError{Message: "no billing account for this user"}
	}

	url, err := s.provider.CreatePortalSession(ctx, ent.CustomerID, s.config.ReturnURL)
	if err != nil {
		return "", &ProviderError{Op: "portal", Cause: err}
	}
	return url, nil
}

// Entitlement returns the stored billing state of a user
func (s *Service) Entitlement(ctx context.Context, userID uuid.UUID) (*types.Entitlement, error) {
	if userID == uuid.Nil {
		return nil, &RequestError{Message: "user id is required"}
	}
	ent, err := s.store.GetEntitlement(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entitlement: %w", err)
	}
	if ent == nil {
		return nil, &RequestError{Message: "user not found"}
	}
	return ent, nil
}

// ParseWebhook verifies and decodes a webhook delivery
func (s *Service) ParseWebhook(payload []byte, signature string) (*Event, error) {
	if signature == "" {
		return nil, &RequestError{Message: "missing signature"}
	}
	ev, err := s.provider.ParseEvent(payload, signature)
	if err != nil {
		return nil, &RequestError{Message: "invalid webhook", Cause: err}
	}
	return ev, nil
}

// HandleEvent applies a webhook event. It reports whether the event type was handled.
// Entitlements are always written as absolute values, so redelivery has no further effect.
func (s *Service) HandleEvent(ctx context.Context, ev Event) (bool, error) {
	switch ev.Type {
	case EventCheckoutCompleted, EventSubscriptionUpdated, EventSubscriptionDeleted:
	default:
		s.logger.Debug("ignoring webhook event", zap.String("type", ev.Type), zap.String("event_id", ev.ID))
		return false, nil
	}

	userID, err := s.resolveUser(ctx, ev)
	if err != nil {
		return true, err
	}
	if userID == uuid.Nil {
		// Nothing to update; acknowledging stops the provider from redelivering.
		s.logger.Warn("webhook event for unknown user",
			zap.String("type", ev.Type), zap.String("event_id", ev.ID), zap.String("customer_id", ev.CustomerID))
		return true, nil
	}

	current, err := s.store.GetEntitlement(ctx, userID)
	if err != nil {
		return true, fmt.Errorf("failed to load entitlement: %w", err)
	}
	if current == nil {
		s.logger.Warn("webhook event for deleted user", zap.String("user_id", userID.String()))
		return true, nil
	}

	next := *current
	next.UserID = userID
	if ev.CustomerID != "" {
		next.CustomerID = ev.CustomerID
	}
	if ev.SubscriptionID != "" {
		next.SubscriptionID = ev.SubscriptionID
	}
	status := ev.Status
	if ev.Type == EventSubscriptionDeleted && status == "" {
		status = "canceled"
	}
	next.SubscriptionStatus = status
	next.IsPro = IsProStatus(status)

	if err := s.store.SetEntitlement(ctx, next); err != nil {
		return true, fmt.Errorf("failed to store entitlement: %w", err)
	}
	s.logger.Info("entitlement updated",
		zap.String("user_id", userID.String()),
		zap.String("event", ev.Type),
		zap.String("status", status),
		zap.Bool("is_pro", next.IsPro))
	return true, nil
}

// IsProStatus reports whether a subscription status grants the pro plan
func IsProStatus(status string) bool {
	return status == "active" || status == "trialing"
}

func (s *Service) resolveUser(ctx context.Context, ev Event) (uuid.UUID, error) {
	if ev.UserID != uuid.Nil {
		return ev.UserID, nil
	}
	if ev.CustomerID == "" {
		return uuid.Nil, nil
	}
	userID, err := s.store.FindUserByCustomer(ctx, ev.CustomerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to find user by customer: %w", err)
	}
	return userID, nil
}

func (s *Service) priceAllowed(priceID string) bool {
	if len(s.config.Prices) == 0 {
		return true
	}
	for _, p := range s.config.Prices {
		if p == priceID {
			return true
		}
	}
	return false
}

// RequestError is a caller mistake; nothing was changed
type RequestError struct {
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("billing request error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("billing request error: %s", e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// ProviderError is a failed call to the payment provider
type ProviderError struct {
	Op    string
	Cause error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("billing provider %s failed: %v", e.Op, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ErrNotConfigured is returned when billing is used without provider credentials
var ErrNotConfigured = errors.New("billing is not configured")
