package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// metadataUserID is the metadata key carrying our user id on Stripe objects
const metadataUserID = "user_id"

// StripeProvider implements Provider with Stripe Checkout and the customer portal
type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

var _ Provider = (*StripeProvider)(nil)

// NewStripeProvider creates a provider using the secret key and webhook signing secret
func NewStripeProvider(secretKey, webhookSecret string) (*StripeProvider, error) {
	if secretKey == "" || webhookSecret == "" {
		return nil, ErrNotConfigured
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api, webhookSecret: webhookSecret}, nil
}

// CreateCheckoutSession creates a subscription checkout session
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*types.CheckoutResponse, error) {
	userID := params.UserID.String()
	sp := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(params.PriceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL:        stripe.String(params.SuccessURL),
		CancelURL:         stripe.String(params.CancelURL),
		ClientReferenceID: stripe.String(userID),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{metadataUserID: userID},
		},
	}
	if params.CustomerID != "" {
		sp.Customer = stripe.String(params.CustomerID)
	} else {
		sp.CustomerEmail = stripe.String(params.Email)
	}
	sp.AddMetadata(metadataUserID, userID)
	sp.Context = ctx

	session, err := p.api.CheckoutSessions.New(sp)
	if err != nil {
		return nil, err
	}
	return &types.CheckoutResponse{SessionID: session.ID, URL: session.URL}, nil
}

// CreatePortalSession creates a billing portal session for a customer
func (p *StripeProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	session, err := p.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

// ParseEvent verifies the Stripe-Signature header and maps the event
func (p *StripeProvider) ParseEvent(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, err
	}
	return eventFromStripe(event)
}

func eventFromStripe(event stripe.Event) (*Event, error) {
	ev := &Event{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil {
		return ev, nil
	}

	switch ev.Type {
	case EventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}
		ev.UserID = parseUserID(session.ClientReferenceID, session.Metadata)
		if session.Customer != nil {
			ev.CustomerID = session.Customer.ID
		}
		if session.Subscription != nil {
			ev.SubscriptionID = session.Subscription.ID
		}
		if session.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
			session.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
			ev.Status = string(stripe.SubscriptionStatusActive)
		} else {
			ev.Status = string(stripe.SubscriptionStatusIncomplete)
		}

	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("failed to decode subscription: %w", err)
		}
		ev.UserID = parseUserID("", sub.Metadata)
		ev.SubscriptionID = sub.ID
		ev.Status = string(sub.Status)
		if sub.Customer != nil {
			ev.CustomerID = sub.Customer.ID
		}
	}
	return ev, nil
}

func parseUserID(reference string, metadata map[string]string) uuid.UUID {
	for _, candidate := range []string{reference, metadata[metadataUserID]} {
		if id, err := uuid.Parse(candidate); err == nil {
			return id
		}
	}
	return uuid.Nil
}
