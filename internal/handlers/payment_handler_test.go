package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/config"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/models"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/services"
	apperrors "github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPaymentAPI struct {
	order        *models.PaymentOrder
	orderErr     error
	verification *models.PaymentVerificationResult
	verifyErr    error
	recorded     []models.AddTransactionRequest
	recordErr    error
}

func (s *stubPaymentAPI) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.PaymentOrder, error) {
	return s.order, s.orderErr
}

func (s *stubPaymentAPI) VerifyPayment(ctx context.Context, data models.CheckoutResponse) (*models.PaymentVerificationResult, error) {
	return s.verification, s.verifyErr
}

func (s *stubPaymentAPI) AddTransaction(ctx context.Context, token string, req models.AddTransactionRequest) error {
	s.recorded = append(s.recorded, req)
	return s.recordErr
}

type stubKeySource struct {
	key string
	err error
}

func (s *stubKeySource) Get(ctx context.Context) (string, error) {
	return s.key, s.err
}

type stubScriptLoader struct {
	err error
}

func (s *stubScriptLoader) Load(ctx context.Context) error {
	return s.err
}

func paymentTestConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		ScriptURL:          "https://checkout.razorpay.com/v1/checkout.js",
		MerchantName:       "B2P TEACHERS",
		PaymentDescription: "100 Days Payment Plan",
		ThemeColor:         "#3b82f6",
		Currency:           "INR",
	}
}

func paymentTestRouter(api *stubPaymentAPI) (*gin.Engine, *PaymentHandler) {
	keys := &stubKeySource{key: "rzp_test_key"}
	service := services.NewPaymentService(api, keys, &stubScriptLoader{}, paymentTestConfig())
	handler := NewPaymentHandler(service, keys, paymentTestConfig())

	router := gin.New()
	router.GET("/payments/config", injectSession("tok-1"), handler.GetConfig)
	router.POST("/payments/checkout", injectSession("tok-1"), handler.StartCheckout)
	router.POST("/payments/checkout/:id/callback", handler.HandleCallback)
	router.POST("/payments/checkout/:id/cancel", handler.HandleCancel)
	router.GET("/payments/checkout/:id", handler.GetAttempt)
	return router, handler
}

func startCheckout(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/payments/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

const validCheckoutBody = `{
	"amount": "500",
	"customer": {"name": "Asha Rao", "email": "asha@example.com", "contact": "9876543210"}
}`

func TestPaymentHandler_GetConfig(t *testing.T) {
	router, _ := paymentTestRouter(&stubPaymentAPI{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/payments/config", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "rzp_test_key", body["key"])
	assert.Equal(t, "https://checkout.razorpay.com/v1/checkout.js", body["script_url"])
	assert.Equal(t, "B2P TEACHERS", body["name"])
	assert.Equal(t, "#3b82f6", body["theme_color"])
}

func TestPaymentHandler_StartCheckout_WidgetHandoff(t *testing.T) {
	api := &stubPaymentAPI{
		order: &models.PaymentOrder{ID: "order_1", Amount: 50000, Currency: "INR"},
	}
	router, _ := paymentTestRouter(api)

	w := startCheckout(t, router, validCheckoutBody)

	assert.Equal(t, http.StatusOK, w.Code)

	var view services.AttemptView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, services.StateWidgetOpen, view.State)
	require.NotNil(t, view.Widget)
	assert.Equal(t, "order_1", view.Widget.OrderID)
	assert.Equal(t, int64(50000), view.Widget.Amount)
}

func TestPaymentHandler_StartCheckout_InvalidAmount(t *testing.T) {
	router, _ := paymentTestRouter(&stubPaymentAPI{})

	w := startCheckout(t, router, `{
		"amount": "-5",
		"customer": {"name": "Asha", "email": "asha@example.com", "contact": "9876543210"}
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a valid amount")
}

func TestPaymentHandler_StartCheckout_MissingCustomerField(t *testing.T) {
	router, _ := paymentTestRouter(&stubPaymentAPI{})

	w := startCheckout(t, router, `{
		"amount": "500",
		"customer": {"name": "Asha", "email": "not-an-email", "contact": "9876543210"}
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_StartCheckout_Busy(t *testing.T) {
	api := &stubPaymentAPI{
		order: &models.PaymentOrder{ID: "order_1", Amount: 50000, Currency: "INR"},
	}
	router, _ := paymentTestRouter(api)

	first := startCheckout(t, router, validCheckoutBody)
	require.Equal(t, http.StatusOK, first.Code)

	second := startCheckout(t, router, validCheckoutBody)
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestPaymentHandler_StartCheckout_OrderDeclined(t *testing.T) {
	api := &stubPaymentAPI{
		orderErr: &apperrors.GatewayDeclinedError{Message: "amount exceeds limit"},
	}
	router, _ := paymentTestRouter(api)

	w := startCheckout(t, router, validCheckoutBody)

	// A workflow failure past validation is a terminal view, not an HTTP error.
	assert.Equal(t, http.StatusOK, w.Code)

	var view services.AttemptView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, services.StateFailed, view.State)
	require.NotNil(t, view.Status)
	assert.Equal(t, "amount exceeds limit", view.Status.Message)
}

func TestPaymentHandler_Callback_Success(t *testing.T) {
	api := &stubPaymentAPI{
		order: &models.PaymentOrder{ID: "order_1", Amount: 50000, Currency: "INR"},
		verification: &models.PaymentVerificationResult{
			Success:   true,
			OrderID:   "order_1",
			PaymentID: "pay_1",
		},
	}
	router, _ := paymentTestRouter(api)

	started := startCheckout(t, router, validCheckoutBody)
	var startedView services.AttemptView
	require.NoError(t, json.Unmarshal(started.Body.Bytes(), &startedView))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/payments/checkout/"+startedView.ID+"/callback", strings.NewReader(`{
		"razorpay_order_id": "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature": "sig_1"
	}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var view services.AttemptView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, services.StateSucceeded, view.State)
	assert.Equal(t, "Payment successful!", view.Status.Message)
	assert.Equal(t, "pay_1", view.Status.PaymentID)

	require.Len(t, api.recorded, 1)
	assert.Equal(t, "pay_1", api.recorded[0].TransactionID)
	assert.Equal(t, "500", api.recorded[0].Amount)
}

func TestPaymentHandler_Callback_UnknownAttempt(t *testing.T) {
	router, _ := paymentTestRouter(&stubPaymentAPI{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/payments/checkout/nope/callback", strings.NewReader(`{
		"razorpay_order_id": "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature": "sig_1"
	}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentHandler_Callback_MissingFields(t *testing.T) {
	router, _ := paymentTestRouter(&stubPaymentAPI{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/payments/checkout/any/callback", strings.NewReader(`{"razorpay_order_id": "order_1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_Cancel(t *testing.T) {
	api := &stubPaymentAPI{
		order: &models.PaymentOrder{ID: "order_1", Amount: 50000, Currency: "INR"},
	}
	router, _ := paymentTestRouter(api)

	started := startCheckout(t, router, validCheckoutBody)
	var startedView services.AttemptView
	require.NoError(t, json.Unmarshal(started.Body.Bytes(), &startedView))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/payments/checkout/"+startedView.ID+"/cancel", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var view services.AttemptView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, services.StateCancelled, view.State)
	assert.Equal(t, "Payment cancelled by user", view.Status.Message)
	assert.Empty(t, api.recorded)
}

func TestPaymentHandler_Cancel_AfterResolved(t *testing.T) {
	api := &stubPaymentAPI{
		order: &models.PaymentOrder{ID: "order_1", Amount: 50000, Currency: "INR"},
	}
	router, _ := paymentTestRouter(api)

	started := startCheckout(t, router, validCheckoutBody)
	var startedView services.AttemptView
	require.NoError(t, json.Unmarshal(started.Body.Bytes(), &startedView))

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest("POST", "/payments/checkout/"+startedView.ID+"/cancel", http.NoBody))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest("POST", "/payments/checkout/"+startedView.ID+"/cancel", http.NoBody))
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestPaymentHandler_GetAttempt(t *testing.T) {
	api := &stubPaymentAPI{
		order: &models.PaymentOrder{ID: "order_1", Amount: 50000, Currency: "INR"},
	}
	router, _ := paymentTestRouter(api)

	started := startCheckout(t, router, validCheckoutBody)
	var startedView services.AttemptView
	require.NoError(t, json.Unmarshal(started.Body.Bytes(), &startedView))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/payments/checkout/"+startedView.ID, http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)

	var view services.AttemptView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, startedView.ID, view.ID)
	assert.Equal(t, services.StateWidgetOpen, view.State)
}

func TestPaymentHandler_GetAttempt_Unknown(t *testing.T) {
	router, _ := paymentTestRouter(&stubPaymentAPI{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/payments/checkout/nope", http.NoBody))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
