package testutils

import (
	"context"
	"slices"
	"sync"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/identity"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockNotifier records every toast and also satisfies testify expectations
// when a test registers any.
type MockNotifier struct {
	mock.Mock

	mu   sync.Mutex
	sent []models.Notification
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, n models.Notification) {
	m.mu.Lock()
	m.sent = append(m.sent, n)
	m.mu.Unlock()

	if len(m.ExpectedCalls) > 0 {
		m.Called(ctx, n)
	}
}

func (m *MockNotifier) Sent() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.sent)
}

// Titles returns the titles of every recorded toast in order.
func (m *MockNotifier) Titles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	titles := make([]string, 0, len(m.sent))
	for _, n := range m.sent {
		titles = append(titles, n.Title)
	}

	return titles
}

type MockNavigator struct {
	mu    sync.Mutex
	paths []string
}

func NewMockNavigator() *MockNavigator {
	return &MockNavigator{}
}

func (m *MockNavigator) Navigate(_ context.Context, path string) {
	m.mu.Lock()
	m.paths = append(m.paths, path)
	m.mu.Unlock()
}

func (m *MockNavigator) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.paths)
}

// Last is the most recent navigation target, or "" if none.
func (m *MockNavigator) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.paths) == 0 {
		return ""
	}

	return m.paths[len(m.paths)-1]
}

// MockIdentityProvider is a testify mock of identity.Provider. The observer
// registered through OnAuthStateChanged is driven manually with Emit.
type MockIdentityProvider struct {
	mock.Mock

	observerMu sync.Mutex
	observer   func(*models.User)
}

func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{}
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

func (m *MockIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

func (m *MockIdentityProvider) SignInWithIdP(ctx context.Context, cred *identity.IdPCredential) (*models.User, error) {
	args := m.Called(ctx, cred)
	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

func (m *MockIdentityProvider) SignOut(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockIdentityProvider) OnAuthStateChanged(fn func(*models.User)) func() {
	m.observerMu.Lock()
	m.observer = fn
	m.observerMu.Unlock()

	return func() {
		m.observerMu.Lock()
		m.observer = nil
		m.observerMu.Unlock()
	}
}

// Emit delivers an auth-state change to the registered observer, if any.
func (m *MockIdentityProvider) Emit(user *models.User) {
	m.observerMu.Lock()
	fn := m.observer
	m.observerMu.Unlock()

	if fn != nil {
		fn(user)
	}
}

// Subscribed reports whether an observer is currently registered.
func (m *MockIdentityProvider) Subscribed() bool {
	m.observerMu.Lock()
	defer m.observerMu.Unlock()

	return m.observer != nil
}

// StaticConsent is a consent flow that has already finished.
type StaticConsent struct {
	Credential *identity.IdPCredential
	Err        error
}

func (s StaticConsent) Complete(context.Context) (*identity.IdPCredential, error) {
	return s.Credential, s.Err
}

type MockAdminAuthenticator struct {
	mock.Mock
}

func NewMockAdminAuthenticator() *MockAdminAuthenticator {
	return &MockAdminAuthenticator{}
}

func (m *MockAdminAuthenticator) AdminLogin(ctx context.Context, req *models.AdminLoginRequest) (*models.AdminLoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.AdminLoginResponse)

	return resp, args.Error(1)
}

type MockOrderSubmitter struct {
	mock.Mock
}

func NewMockOrderSubmitter() *MockOrderSubmitter {
	return &MockOrderSubmitter{}
}

func (m *MockOrderSubmitter) CreateOrder(ctx context.Context, order *models.ShippingOrder) (*models.Order, error) {
	args := m.Called(ctx, order)
	created, _ := args.Get(0).(*models.Order)

	return created, args.Error(1)
}

// StubSession is a settable customer session.
type StubSession struct {
	mu   sync.Mutex
	user *models.User
}

func NewStubSession(user *models.User) *StubSession {
	return &StubSession{user: user}
}

func (s *StubSession) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}

	u := *s.user

	return &u
}

func (s *StubSession) SetUser(user *models.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}
