package types

import "github.com/google/uuid"

// CheckoutRequest creates a hosted checkout session for a subscription price
type CheckoutRequest struct {
	PriceID string `json:"priceId"`
}

// CheckoutResponse references the created checkout session
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// PortalResponse carries the customer portal URL
type PortalResponse struct {
	URL string `json:"url"`
}

// Entitlement is the billing state stored on the user record
type Entitlement struct {
	UserID             uuid.UUID `json:"user_id"`
	IsPro              bool      `json:"is_pro"`
	CustomerID         string    `json:"customer_id,omitempty"`
	SubscriptionID     string    `json:"subscription_id,omitempty"`
	SubscriptionStatus string    `json:"subscription_status,omitempty"`
}
