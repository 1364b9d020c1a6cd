package services

import (
	"context"

	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/models"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/logger"
	"github.com/stretchr/testify/mock"
)

func init() {
	// Initialize logger for tests
	_ = logger.Initialize(logger.Config{Level: "error", Environment: "development"})
}

// MockPaymentAPI is a mock implementation of PaymentAPI
type MockPaymentAPI struct {
	mock.Mock
}

func (m *MockPaymentAPI) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.PaymentOrder, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentOrder), args.Error(1)
}

func (m *MockPaymentAPI) VerifyPayment(ctx context.Context, data models.CheckoutResponse) (*models.PaymentVerificationResult, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentVerificationResult), args.Error(1)
}

func (m *MockPaymentAPI) AddTransaction(ctx context.Context, token string, req models.AddTransactionRequest) error {
	args := m.Called(ctx, token, req)
	return args.Error(0)
}

// MockDashboardAPI is a mock implementation of DashboardAPI
type MockDashboardAPI struct {
	mock.Mock
}

func (m *MockDashboardAPI) FetchHistoricMeetings(ctx context.Context, token string) ([]models.Meeting, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Meeting), args.Error(1)
}

func (m *MockDashboardAPI) FetchTransactions(ctx context.Context, token string) ([]models.Transaction, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

// MockKeySource is a mock implementation of RazorpayKeySource
type MockKeySource struct {
	mock.Mock
}

func (m *MockKeySource) Get(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockScriptLoader is a mock implementation of checkout.ScriptLoader
type MockScriptLoader struct {
	mock.Mock
}

func (m *MockScriptLoader) Load(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
