package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zahrabeauty/storefront/internal/models"
)

// MockClient is the testify mock used by the service tests.
type MockClient struct {
	mock.Mock
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) FetchProducts(ctx context.Context, query models.ProductQuery) (*models.ProductPage, error) {
	args := m.Called(ctx, query)

	page, _ := args.Get(0).(*models.ProductPage)

	return page, args.Error(1)
}

func (m *MockClient) FetchProduct(ctx context.Context, productID string) (*models.Product, error) {
	args := m.Called(ctx, productID)

	product, _ := args.Get(0).(*models.Product)

	return product, args.Error(1)
}

func (m *MockClient) FetchBrands(ctx context.Context) ([]models.Brand, error) {
	args := m.Called(ctx)

	brands, _ := args.Get(0).([]models.Brand)

	return brands, args.Error(1)
}

func (m *MockClient) FetchCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)

	categories, _ := args.Get(0).([]models.Category)

	return categories, args.Error(1)
}

func (m *MockClient) FetchSellingPoints(ctx context.Context) ([]models.SellingPoint, error) {
	args := m.Called(ctx)

	points, _ := args.Get(0).([]models.SellingPoint)

	return points, args.Error(1)
}

func (m *MockClient) SubmitOrder(ctx context.Context, order *models.CheckoutOrder) error {
	args := m.Called(ctx, order)

	return args.Error(0)
}

func (m *MockClient) Login(ctx context.Context, req *models.LoginRequest) error {
	args := m.Called(ctx, req)

	return args.Error(0)
}

func (m *MockClient) Register(ctx context.Context, req *models.RegisterRequest) error {
	args := m.Called(ctx, req)

	return args.Error(0)
}

func (m *MockClient) Logout(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockClient) Me(ctx context.Context) (*models.AuthUser, error) {
	args := m.Called(ctx)

	user, _ := args.Get(0).(*models.AuthUser)

	return user, args.Error(1)
}

func (m *MockClient) Refresh(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockClient) SendEmailVerification(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockClient) VerifyEmail(ctx context.Context, token string) error {
	args := m.Called(ctx, token)

	return args.Error(0)
}

func (m *MockClient) ValidateClientVersion(ctx context.Context, version string) (bool, error) {
	args := m.Called(ctx, version)

	return args.Bool(0), args.Error(1)
}
