package server

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/billing"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/types"
)

// memUsers is an in-memory UserStore and billing.EntitlementStore
type memUsers struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*db.User
	entitlements map[uuid.UUID]types.Entitlement
	failCreate   error
}

func newMemUsers() *memUsers {
	return &memUsers{
		users:        make(map[uuid.UUID]*db.User),
		entitlements: make(map[uuid.UUID]types.Entitlement),
	}
}

func (m *memUsers) CheckEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) CreateUser(_ context.Context, name, email, phone string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return uuid.Nil, m.failCreate
	}
	now := time.Now()
	u := &db.User{ID: uuid.New(), Name: name, Email: email, Phone: phone, CreatedAt: now, UpdatedAt: now}
	m.users[u.ID] = u
	m.entitlements[u.ID] = types.Entitlement{UserID: u.ID}
	return u.ID, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	return nil
}

func (m *memUsers) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	cp.IsPro = m.entitlements[id].IsPro
	return &cp, nil
}

func (m *memUsers) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	var id uuid.UUID
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			id = u.ID
		}
	}
	m.mu.Unlock()
	if id == uuid.Nil {
		return nil, nil
	}
	return m.GetUser(ctx, id)
}

func (m *memUsers) DeleteUser(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	delete(m.entitlements, id)
	return nil
}

func (m *memUsers) GetEntitlement(_ context.Context, userID uuid.UUID) (*types.Entitlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ent, ok := m.entitlements[userID]
	if !ok {
		return nil, nil
	}
	return &ent, nil
}

func (m *memUsers) FindUserByCustomer(_ context.Context, customerID string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ent := range m.entitlements {
		if ent.CustomerID == customerID {
			return id, nil
		}
	}
	return uuid.Nil, nil
}

func (m *memUsers) SetEntitlement(_ context.Context, ent types.Entitlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entitlements[ent.UserID] = ent
	return nil
}

// memResumes is an in-memory ResumeStore
type memResumes struct {
	mu      sync.Mutex
	resumes map[uuid.UUID]*types.Resume
}

func newMemResumes() *memResumes {
	return &memResumes{resumes: make(map[uuid.UUID]*types.Resume)}
}

func (m *memResumes) GetResume(_ context.Context, userID, resumeID uuid.UUID) (*types.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[resumeID]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memResumes) CreateResume(_ context.Context, userID uuid.UUID, title string, content *types.ResumeContent, display types.DisplayConfig) (*types.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	r := &types.Resume{
		ID: uuid.New(), UserID: userID, Title: title,
		Content: *content.Clone(), Display: display,
		CreatedAt: now, UpdatedAt: now,
	}
	m.resumes[r.ID] = r
	cp := *r
	return &cp, nil
}

func (m *memResumes) UpdateResume(_ context.Context, userID, resumeID uuid.UUID, title string, content *types.ResumeContent, display types.DisplayConfig) (*types.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[resumeID]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	r.Title = title
	r.Content = *content.Clone()
	r.Display = display
	r.UpdatedAt = time.Now()
	cp := *r
	return &cp, nil
}

func (m *memResumes) ListResumes(_ context.Context, userID uuid.UUID, limit int) ([]types.ResumeSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.ResumeSummary
	for _, r := range m.resumes {
		if r.UserID == userID {
			out = append(out, types.ResumeSummary{ID: r.ID, Title: r.Title, Template: r.Display.Template, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memResumes) DeleteResume(_ context.Context, userID, resumeID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[resumeID]
	if !ok || r.UserID != userID {
		return false, nil
	}
	delete(m.resumes, resumeID)
	return true, nil
}

// stubLLM answers every JSON call with one document carrying all assist fields
type stubLLM struct {
	json string
	text string
	err  error
}

func (s *stubLLM) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return s.text, s.err
}

func (s *stubLLM) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return s.json, s.err
}

func (s *stubLLM) GetModel(tier llm.ModelTier) string { return string(tier) }
func (s *stubLLM) Close() error                       { return nil }

// stubProvider is a billing.Provider whose webhook signature is the literal "valid"
type stubProvider struct {
	mu       sync.Mutex
	checkout []billing.CheckoutParams
	event    billing.Event
}

func (p *stubProvider) CreateCheckoutSession(_ context.Context, params billing.CheckoutParams) (*types.CheckoutResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checkout = append(p.checkout, params)
	return &types.CheckoutResponse{SessionID: "cs_test", URL: "https://pay.example.com/cs_test"}, nil
}

func (p *stubProvider) CreatePortalSession(_ context.Context, customerID, _ string) (string, error) {
	return "https://pay.example.com/portal/" + customerID, nil
}

func (p *stubProvider) ParseEvent(_ []byte, signature string) (*billing.Event, error) {
	if signature != "valid" {
		return nil, errors.New("signature mismatch")
	}
	ev := p.event
	return &ev, nil
}

// stubConverter returns a fixed PDF
type stubConverter struct {
	html string
}

func (c *stubConverter) HTMLToPDF(_ context.Context, html string) ([]byte, error) {
	c.html = html
	return []byte("%PDF-1.7 stub"), nil
}
