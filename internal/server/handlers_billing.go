package server

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/billing"
	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/types"
)

// WebhookResponse acknowledges a webhook delivery
type WebhookResponse struct {
	Received bool `json:"received"`
	Handled  bool `json:"handled"`
}

// billingEnabled writes 503 when no billing service is configured
func (s *Server) billingEnabled(w http.ResponseWriter, r *http.Request) bool {
	if s.billing == nil {
		s.writeError(w, r, billing.ErrNotConfigured)
		return false
	}
	return true
}

// handleCheckout starts a hosted checkout for the authenticated user
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok || !s.billingEnabled(w, r) {
		return
	}

	var req types.CheckoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.userService.Get(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.billing.CreateCheckout(r.Context(), req.PriceID, userID, user.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, session)
}

func (s *Server) handlePortal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok || !s.billingEnabled(w, r) {
		return
	}

	url, err := s.billing.CreatePortal(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, types.PortalResponse{URL: url})
}

func (s *Server) handleEntitlement(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok || !s.billingEnabled(w, r) {
		return
	}

	ent, err := s.billing.Entitlement(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, ent)
}

// handleWebhook verifies and applies a subscription webhook. The raw body is needed for
// signature verification, so it is read before any decoding.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if !s.billingEnabled(w, r) {
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ev, err := s.billing.ParseWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	handled, err := s.billing.HandleEvent(r.Context(), *ev)
	metrics.ObserveWebhook(ev.Type, handled)
	if err != nil {
		// A non-2xx answer makes the provider redeliver
		s.logger.Error("webhook event failed",
			zap.String("event_id", ev.ID), zap.String("type", ev.Type), zap.Error(err))
		errorResponse(w, http.StatusInternalServerError, "webhook processing failed")
		return
	}
	jsonResponse(w, http.StatusOK, WebhookResponse{Received: true, Handled: handled})
}
