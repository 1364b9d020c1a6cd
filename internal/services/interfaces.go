package services

import (
	"context"

	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/models"
)

// DashboardAPI is the slice of the upstream client the dashboard needs.
type DashboardAPI interface {
	FetchHistoricMeetings(ctx context.Context, token string) ([]models.Meeting, error)
	FetchTransactions(ctx context.Context, token string) ([]models.Transaction, error)
}

// PaymentAPI is the slice of the upstream client the payment workflow needs.
type PaymentAPI interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.PaymentOrder, error)
	VerifyPayment(ctx context.Context, data models.CheckoutResponse) (*models.PaymentVerificationResult, error)
	AddTransaction(ctx context.Context, token string, req models.AddTransactionRequest) error
}

// RazorpayKeySource resolves the public key used to open the checkout widget.
// Satisfied by the TTL key cache.
type RazorpayKeySource interface {
	Get(ctx context.Context) (string, error)
}
