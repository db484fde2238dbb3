package billing

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_test"

func signed(t *testing.T, payload string) (*webhook.SignedPayload, []byte) {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: []byte(payload), Secret: testWebhookSecret})
	return sp, []byte(payload)
}

func TestNewStripeProvider_RequiresSecrets(t *testing.T) {
	_, err := NewStripeProvider("", testWebhookSecret)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewStripeProvider("sk_test", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestStripeProvider_ParseCheckoutCompleted(t *testing.T) {
	p, err := NewStripeProvider("sk_test", testWebhookSecret)
	require.NoError(t, err)
	userID := uuid.New()

	sp, payload := signed(t, fmt.Sprintf(`{"id": "evt_1", "object": "event", "type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "object": "checkout.session", "client_reference_id": %q,
		"customer": "cus_1", "subscription": "sub_1", "payment_status": "paid"}}}`, userID))

	ev, err := p.ParseEvent(payload, sp.Header)
	require.NoError(t, err)
	assert.Equal(t, &Event{ID: "evt_1", Type: EventCheckoutCompleted, UserID: userID, CustomerID: "cus_1", SubscriptionID: "sub_1", Status: "active"}, ev)
}

func TestStripeProvider_ParseSubscriptionEvent(t *testing.T) {
	p, err := NewStripeProvider("sk_test", testWebhookSecret)
	require.NoError(t, err)
	userID := uuid.New()

	sp, payload := signed(t, fmt.Sprintf(`{"id": "evt_2", "object": "event", "type": "customer.subscription.updated",
		"data": {"object": {"id": "sub_1", "object": "subscription", "customer": "cus_1", "status": "past_due",
		"metadata": {"user_id": %q}}}}`, userID))

	ev, err := p.ParseEvent(payload, sp.Header)
	require.NoError(t, err)
	assert.Equal(t, userID, ev.UserID)
	assert.Equal(t, "past_due", ev.Status)
	assert.Equal(t, "cus_1", ev.CustomerID)
}

func TestStripeProvider_RejectsBadSignature(t *testing.T) {
	p, err := NewStripeProvider("sk_test", testWebhookSecret)
	require.NoError(t, err)

	_, payload := signed(t, `{"id": "evt_3", "object": "event", "type": "invoice.paid", "data": {"object": {}}}`)
	_, err = p.ParseEvent(payload, "t=1,v1=deadbeef")
	assert.Error(t, err)
}
