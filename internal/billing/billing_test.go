package billing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*types.CheckoutResponse, error) {
	args := m.Called(ctx, params)
	resp, _ := args.Get(0).(*types.CheckoutResponse)
	return resp, args.Error(1)
}

func (m *mockProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	args := m.Called(ctx, customerID, returnURL)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) ParseEvent(payload []byte, signature string) (*Event, error) {
	args := m.Called(payload, signature)
	ev, _ := args.Get(0).(*Event)
	return ev, args.Error(1)
}

type memoryEntitlements struct {
	mu     sync.Mutex
	byUser map[uuid.UUID]types.Entitlement
	writes int
}

func newMemoryEntitlements(users ...uuid.UUID) *memoryEntitlements {
	m := &memoryEntitlements{byUser: map[uuid.UUID]types.Entitlement{}}
	for _, id := range users {
		m.byUser[id] = types.Entitlement{UserID: id}
	}
	return m
}

func (m *memoryEntitlements) GetEntitlement(_ context.Context, userID uuid.UUID) (*types.Entitlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ent, ok := m.byUser[userID]
	if !ok {
		return nil, nil
	}
	return &ent, nil
}

func (m *memoryEntitlements) FindUserByCustomer(_ context.Context, customerID string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ent := range m.byUser {
		if ent.CustomerID == customerID {
			return id, nil
		}
	}
	return uuid.Nil, nil
}

func (m *memoryEntitlements) SetEntitlement(_ context.Context, ent types.Entitlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byUser[ent.UserID] = ent
	m.writes++
	return nil
}

var testConfig = Config{SuccessURL: "https://app/success", CancelURL: "https://app/cancel", ReturnURL: "https://app/account"}

func TestCreateCheckout_Validation(t *testing.T) {
	userID := uuid.New()
	provider := new(mockProvider)
	store := newMemoryEntitlements(userID)
	svc := NewService(provider, store, Config{Prices: []string{"price_pro"}}, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		priceID string
		userID  uuid.UUID
		email   string
	}{
		{"missing price", " ", userID, "a@b.c"},
		{"missing user", "price_pro", uuid.Nil, "a@b.c"},
		{"missing email", "price_pro", userID, ""},
		{"unknown price", "price_other", userID, "a@b.c"},
		{"unknown user", "price_pro", uuid.New(), "a@b.c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCheckout(ctx, tt.priceID, tt.userID, tt.email)
			var reqErr *RequestError
			assert.ErrorAs(t, err, &reqErr)
		})
	}
	provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	assert.Zero(t, store.writes)
}

func TestCreateCheckout(t *testing.T) {
	userID := uuid.New()
	provider := new(mockProvider)
	store := newMemoryEntitlements(userID)
	store.byUser[userID] = types.Entitlement{UserID: userID, CustomerID: "cus_1"}

	provider.On("CreateCheckoutSession", mock.Anything, CheckoutParams{
		PriceID: "price_pro", UserID: userID, Email: "a@b.c", CustomerID: "cus_1",
		SuccessURL: testConfig.SuccessURL, CancelURL: testConfig.CancelURL,
	}).Return(&types.CheckoutResponse{SessionID: "cs_1", URL: "https://checkout/cs_1"}, nil)

	resp, err := NewService(provider, store, testConfig, nil).CreateCheckout(context.Background(), "price_pro", userID, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "cs_1", resp.SessionID)
	provider.AssertExpectations(t)
}

func TestCreateCheckout_ProviderFailure(t *testing.T) {
	userID := uuid.New()
	provider := new(mockProvider)
	provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, errors.New("stripe down"))

	_, err := NewService(provider, newMemoryEntitlements(userID), testConfig, nil).CreateCheckout(context.Background(), "price", userID, "a@b.c")
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "checkout", provErr.Op)
}

func TestCreatePortal(t *testing.T) {
	withCustomer, without := uuid.New(), uuid.New()
	store := newMemoryEntitlements(without)
	store.byUser[withCustomer] = types.Entitlement{UserID: withCustomer, CustomerID: "cus_9"}

	provider := new(mockProvider)
	provider.On("CreatePortalSession", mock.Anything, "cus_9", testConfig.ReturnURL).Return("https://portal/9", nil)
	svc := NewService(provider, store, testConfig, nil)

	url, err := svc.CreatePortal(context.Background(), withCustomer)
	require.NoError(t, err)
	assert.Equal(t, "https://portal/9", url)

	_, err = svc.CreatePortal(context.Background(), without)
	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
}

func TestEntitlement(t *testing.T) {
	userID := uuid.New()
	store := newMemoryEntitlements()
	store.byUser[userID] = types.Entitlement{UserID: userID, IsPro: true, SubscriptionStatus: "active"}
	svc := NewService(new(mockProvider), store, testConfig, nil)

	ent, err := svc.Entitlement(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, ent.IsPro)

	_, err = svc.Entitlement(context.Background(), uuid.New())
	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
}

func TestHandleEvent_IgnoresUnlistedTypes(t *testing.T) {
	store := newMemoryEntitlements()
	handled, err := NewService(new(mockProvider), store, testConfig, nil).HandleEvent(context.Background(), Event{Type: "invoice.paid", CustomerID: "cus_1"})
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Zero(t, store.writes)
}

func TestHandleEvent_Lifecycle(t *testing.T) {
	userID := uuid.New()
	store := newMemoryEntitlements(userID)
	svc := NewService(new(mockProvider), store, testConfig, nil)
	ctx := context.Background()

	handled, err := svc.HandleEvent(ctx, Event{Type: EventCheckoutCompleted, UserID: userID, CustomerID: "cus_1", SubscriptionID: "sub_1", Status: "active"})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, types.Entitlement{UserID: userID, IsPro: true, CustomerID: "cus_1", SubscriptionID: "sub_1", SubscriptionStatus: "active"}, store.byUser[userID])

	// Subscription events are resolved through the stored customer id.
	_, err = svc.HandleEvent(ctx, Event{Type: EventSubscriptionUpdated, CustomerID: "cus_1", SubscriptionID: "sub_1", Status: "past_due"})
	require.NoError(t, err)
	assert.False(t, store.byUser[userID].IsPro)

	_, err = svc.HandleEvent(ctx, Event{Type: EventSubscriptionUpdated, CustomerID: "cus_1", SubscriptionID: "sub_1", Status: "trialing"})
	require.NoError(t, err)
	assert.True(t, store.byUser[userID].IsPro)

	_, err = svc.HandleEvent(ctx, Event{Type: EventSubscriptionDeleted, CustomerID: "cus_1", SubscriptionID: "sub_1"})
	require.NoError(t, err)
	assert.False(t, store.byUser[userID].IsPro)
	assert.Equal(t, "canceled", store.byUser[userID].SubscriptionStatus)
	assert.Equal(t, "cus_1", store.byUser[userID].CustomerID)
}

func TestHandleEvent_Idempotent(t *testing.T) {
	userID := uuid.New()
	store := newMemoryEntitlements(userID)
	svc := NewService(new(mockProvider), store, testConfig, nil)
	ev := Event{ID: "evt_1", Type: EventCheckoutCompleted, UserID: userID, CustomerID: "cus_1", Status: "active"}

	for i := 0; i < 3; i++ {
		_, err := svc.HandleEvent(context.Background(), ev)
		require.NoError(t, err)
		assert.True(t, store.byUser[userID].IsPro)
	}
	assert.Equal(t, types.Entitlement{UserID: userID, IsPro: true, CustomerID: "cus_1", SubscriptionStatus: "active"}, store.byUser[userID])
}

func TestHandleEvent_UnknownUserIsAcknowledged(t *testing.T) {
	store := newMemoryEntitlements()
	svc := NewService(new(mockProvider), store, testConfig, nil)

	handled, err := svc.HandleEvent(context.Background(), Event{Type: EventSubscriptionUpdated, CustomerID: "cus_404", Status: "active"})
	require.NoError(t, err)
	assert.True(t, handled)

	handled, err = svc.HandleEvent(context.Background(), Event{Type: EventCheckoutCompleted, UserID: uuid.New(), Status: "active"})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Zero(t, store.writes)
}

func TestParseWebhook(t *testing.T) {
	provider := new(mockProvider)
	provider.On("ParseEvent", []byte("bad"), "sig").Return(nil, errors.New("signature mismatch"))
	svc := NewService(provider, newMemoryEntitlements(), testConfig, nil)

	var reqErr *RequestError
	_, err := svc.ParseWebhook([]byte("bad"), "")
	assert.ErrorAs(t, err, &reqErr)
	_, err = svc.ParseWebhook([]byte("bad"), "sig")
	assert.ErrorAs(t, err, &reqErr)
}

func TestIsProStatus(t *testing.T) {
	for status, want := range map[string]bool{
		"active": true, "trialing": true, "past_due": false, "canceled": false, "incomplete": false, "": false,
	} {
		assert.Equal(t, want, IsProStatus(status), status)
	}
}
