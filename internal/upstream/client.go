package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/models"
	apperrors "github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/errors"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/httpclient"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/logger"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/metrics"
	"go.uber.org/zap"
)

// Endpoint paths on the B2P backend. The portal owns none of this data;
// every read and write goes through these routes.
const (
	pathHistoricMeetings = "/meetings/fetch-student-historic-meetings"
	pathTransactions     = "/payments/fetch-transactions"
	pathRazorpayKey      = "/payments/get-razorpay-key"
	pathMakePayment      = "/payments/make-payment"
	pathVerifyPayments   = "/payments/verify-payments"
	pathAddTransaction   = "/payments/add-transcation" // sic: backend route is misspelled
)

// Client is a typed client for the B2P backend API. Responses are treated
// as untrusted payloads: every body is decoded and shape-checked before use.
type Client struct {
	baseURL    string
	httpClient httpclient.Client
	timeout    time.Duration
}

// NewClient creates a backend API client. Every call runs under the given
// bounded timeout; nothing is retried.
func NewClient(baseURL string, timeout time.Duration, httpClient httpclient.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		timeout:    timeout,
	}
}

type meetingsEnvelope struct {
	Meetings *[]models.Meeting `json:"meetings"`
}

type transactionsEnvelope struct {
	Data *[]models.Transaction `json:"data"`
}

type razorpayKeyEnvelope struct {
	Key string `json:"key"`
}

// FetchHistoricMeetings returns the student's meeting history.
func (c *Client) FetchHistoricMeetings(ctx context.Context, token string) ([]models.Meeting, error) {
	const operation = "fetchHistoricMeetings"

	var envelope meetingsEnvelope
	if err := c.call(ctx, operation, http.MethodGet, pathHistoricMeetings, token, nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Meetings == nil {
		return nil, apperrors.MalformedPayloadError(operation, "missing meetings field")
	}

	return *envelope.Meetings, nil
}

// FetchTransactions returns the student's payment transactions.
func (c *Client) FetchTransactions(ctx context.Context, token string) ([]models.Transaction, error) {
	const operation = "fetchTransactions"

	var envelope transactionsEnvelope
	if err := c.call(ctx, operation, http.MethodGet, pathTransactions, token, nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, apperrors.MalformedPayloadError(operation, "missing data field")
	}

	return *envelope.Data, nil
}

// GetRazorpayKey fetches the public Razorpay key used to open the widget.
func (c *Client) GetRazorpayKey(ctx context.Context) (string, error) {
	const operation = "getRazorpayKey"

	var envelope razorpayKeyEnvelope
	if err := c.call(ctx, operation, http.MethodGet, pathRazorpayKey, "", nil, &envelope); err != nil {
		return "", err
	}
	if envelope.Key == "" {
		return "", apperrors.MalformedPayloadError(operation, "empty key")
	}

	return envelope.Key, nil
}

// CreateOrder asks the backend to open a gateway order for one attempt.
// A backend success:false is reported as ErrGatewayDeclined carrying the
// backend-provided message when present.
func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.PaymentOrder, error) {
	const operation = "createOrder"

	var resp models.CreateOrderResponse
	if err := c.call(ctx, operation, http.MethodPost, pathMakePayment, "", req, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		message := resp.Message
		if message == "" {
			message = "Failed to create order"
		}
		return nil, &apperrors.GatewayDeclinedError{Message: message}
	}
	if resp.Order == nil || resp.Order.ID == "" {
		return nil, apperrors.MalformedPayloadError(operation, "missing order")
	}

	return resp.Order, nil
}

// VerifyPayment submits the gateway identifiers for server-side verification.
// The backend is the sole authority on success; the caller must not treat a
// returned result with Success=false as anything but a failed payment.
func (c *Client) VerifyPayment(ctx context.Context, data models.CheckoutResponse) (*models.PaymentVerificationResult, error) {
	const operation = "verifyPayment"

	var result models.PaymentVerificationResult
	if err := c.call(ctx, operation, http.MethodPost, pathVerifyPayments, "", data, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// AddTransaction records a verified payment against the student ledger.
func (c *Client) AddTransaction(ctx context.Context, token string, req models.AddTransactionRequest) error {
	const operation = "addTransaction"

	return c.call(ctx, operation, http.MethodPost, pathAddTransaction, token, req, nil)
}

// call issues one request and decodes the response into out (when non-nil).
// Transport failures, non-2xx statuses and undecodable bodies are the three
// failure shapes; none of them is retried.
func (c *Client) call(ctx context.Context, operation, method, path, token string, body, out any) error {
	start := time.Now()

	err := c.doCall(ctx, method, path, token, body, out, operation)

	status := "success"
	if err != nil {
		status = "error"
	}
	duration := metrics.MeasureDuration(start)
	metrics.UpstreamRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.UpstreamRequestTotal.WithLabelValues(operation, status).Inc()
	logger.LogUpstreamCall(operation, status, duration, zap.String("path", path))

	return err
}

func (c *Client) doCall(ctx context.Context, method, path, token string, body, out any, operation string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.UpstreamError(operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.UpstreamError(operation, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.MalformedPayloadError(operation, err.Error())
	}

	return nil
}
