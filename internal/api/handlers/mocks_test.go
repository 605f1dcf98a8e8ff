package handlers_test

import (
	"context"
	"net/url"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/identity"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockCustomerSession struct {
	mock.Mock
}

func (m *mockCustomerSession) Login(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

func (m *mockCustomerSession) Register(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

func (m *mockCustomerSession) SignInWithFederatedProvider(ctx context.Context, flow identity.ConsentFlow) (*models.User, error) {
	args := m.Called(ctx, flow)
	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

func (m *mockCustomerSession) LogOut(ctx context.Context) {
	m.Called(ctx)
}

type mockConsentProvider struct {
	mock.Mock
}

func (m *mockConsentProvider) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *mockConsentProvider) GetLoginURL(state string) string {
	return m.Called(state).String(0)
}

func (m *mockConsentProvider) Callback(query url.Values, expectedState string) identity.ConsentFlow {
	args := m.Called(query, expectedState)
	flow, _ := args.Get(0).(identity.ConsentFlow)

	return flow
}

type mockCheckout struct {
	mock.Mock
}

func (m *mockCheckout) Enter(ctx context.Context) (*models.CheckoutView, error) {
	args := m.Called(ctx)
	view, _ := args.Get(0).(*models.CheckoutView)

	return view, args.Error(1)
}

func (m *mockCheckout) Validate(form models.ShippingForm) error {
	return m.Called(form).Error(0)
}

func (m *mockCheckout) Submit(ctx context.Context, form models.ShippingForm) (*models.Order, error) {
	args := m.Called(ctx, form)
	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

type mockOrders struct {
	mock.Mock
}

func (m *mockOrders) GetOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	args := m.Called(ctx, email)
	orders, _ := args.Get(0).([]models.Order)

	return orders, args.Error(1)
}

type mockBooks struct {
	mock.Mock
}

func (m *mockBooks) ListBooks(ctx context.Context) ([]models.Book, error) {
	args := m.Called(ctx)
	books, _ := args.Get(0).([]models.Book)

	return books, args.Error(1)
}

func (m *mockBooks) GetBook(ctx context.Context, id string) (*models.Book, error) {
	args := m.Called(ctx, id)
	book, _ := args.Get(0).(*models.Book)

	return book, args.Error(1)
}

type mockAdminSession struct {
	mock.Mock
}

func (m *mockAdminSession) Login(ctx context.Context, username, password string) (*models.AdminCredential, error) {
	args := m.Called(ctx, username, password)
	cred, _ := args.Get(0).(*models.AdminCredential)

	return cred, args.Error(1)
}

func (m *mockAdminSession) Logout(ctx context.Context) {
	m.Called(ctx)
}

type mockAdminAPI struct {
	mock.Mock
}

func (m *mockAdminAPI) Stats(ctx context.Context) (*models.AdminStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*models.AdminStats)

	return stats, args.Error(1)
}

func (m *mockAdminAPI) CreateBook(ctx context.Context, req *models.BookRequest) (*models.Book, error) {
	args := m.Called(ctx, req)
	book, _ := args.Get(0).(*models.Book)

	return book, args.Error(1)
}

func (m *mockAdminAPI) UpdateBook(ctx context.Context, id string, req *models.BookRequest) (*models.Book, error) {
	args := m.Called(ctx, id, req)
	book, _ := args.Get(0).(*models.Book)

	return book, args.Error(1)
}

func (m *mockAdminAPI) DeleteBook(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAdminAPI) AllOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]models.Order)

	return orders, args.Error(1)
}
