package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/config"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/checkout"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/models"
	apperrors "github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/errors"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/logger"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AttemptState is the workflow state of one payment attempt.
type AttemptState string

const (
	StateIdle          AttemptState = "idle"
	StateValidating    AttemptState = "validating"
	StateScriptLoading AttemptState = "script_loading"
	StateOrderCreating AttemptState = "order_creating"
	StateWidgetOpen    AttemptState = "widget_open"
	StateVerifying     AttemptState = "verifying"
	StateSucceeded     AttemptState = "succeeded"
	StateFailed        AttemptState = "failed"
	StateCancelled     AttemptState = "cancelled"
)

// Terminal reports whether the attempt can no longer change state.
// A new attempt may only start from Idle or a terminal state.
func (s AttemptState) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

// User-facing workflow messages. Cancellation is not a failure and carries
// its own fixed message.
const (
	msgInvalidAmount      = "Please enter a valid amount"
	msgMissingCustomer    = "Please fill in all customer details"
	msgScriptLoadFailed   = "Failed to load Razorpay SDK"
	msgOrderFailed        = "Failed to create order"
	msgCancelledByUser    = "Payment cancelled by user"
	msgVerificationFailed = "Payment verification failed"
	msgPaymentSuccess     = "Payment successful!"
	msgRecordingFailed    = "Payment succeeded but could not be recorded, please contact support"
)

var paiseFactor = decimal.NewFromInt(100)

// Attempt is one payment attempt moving through the workflow. All state
// transitions happen under its mutex; the events channel carries at most
// one widget event, which is the only thing that can resume a suspended
// attempt.
type Attempt struct {
	id       string
	token    string
	amount   decimal.Decimal
	amountIn string
	customer models.CustomerInfo

	mu           sync.Mutex
	state        AttemptState
	order        *models.PaymentOrder
	widget       *checkout.Options
	status       *models.PaymentStatus
	recordingErr error

	events chan checkout.Event
}

// AttemptView is the render-ready snapshot of an attempt.
type AttemptView struct {
	ID      string                `json:"id"`
	State   AttemptState          `json:"state"`
	Widget  *checkout.Options     `json:"widget,omitempty"`
	Status  *models.PaymentStatus `json:"status,omitempty"`
	Warning string                `json:"warning,omitempty"`
}

// PaymentService owns the payment workflow. It holds at most one
// non-terminal attempt at a time; starting another while one is in flight
// is rejected rather than queued.
type PaymentService struct {
	api      PaymentAPI
	keys     RazorpayKeySource
	scripts  checkout.ScriptLoader
	checkout config.CheckoutConfig
	validate *validator.Validate

	mu       sync.Mutex
	current  *Attempt
	attempts map[string]*Attempt
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(api PaymentAPI, keys RazorpayKeySource, scripts checkout.ScriptLoader, checkoutCfg config.CheckoutConfig) *PaymentService {
	return &PaymentService{
		api:      api,
		keys:     keys,
		scripts:  scripts,
		checkout: checkoutCfg,
		validate: validator.New(),
		attempts: make(map[string]*Attempt),
	}
}

// StartAttempt validates the input and runs the attempt up to the widget
// handoff. Validation failures issue zero network calls and register no
// attempt; workflow failures past validation return a terminal view with a
// nil error.
func (s *PaymentService) StartAttempt(ctx context.Context, token, rawAmount string, customer models.CustomerInfo) (*AttemptView, error) {
	amount, err := s.validateInput(rawAmount, customer)
	if err != nil {
		return nil, err
	}

	attempt, err := s.register(token, amount, rawAmount, customer)
	if err != nil {
		return nil, err
	}

	// ScriptLoading: key resolution and the script probe both precede any
	// order; either failing is terminal for the attempt.
	key, err := s.keys.Get(ctx)
	if err != nil {
		return s.fail(attempt, msgScriptLoadFailed, err), nil
	}
	if err := s.scripts.Load(ctx); err != nil {
		return s.fail(attempt, msgScriptLoadFailed, err), nil
	}

	attempt.setState(StateOrderCreating)

	// The order request carries the rupee value; the backend converts it to
	// paise, and the returned order (used for the widget) is in paise.
	order, err := s.api.CreateOrder(ctx, models.CreateOrderRequest{
		Amount:   amount.InexactFloat64(),
		Currency: s.checkout.Currency,
		Receipt:  fmt.Sprintf("receipt_%d", time.Now().UnixMilli()),
		Notes: map[string]string{
			"customer_name":  customer.Name,
			"customer_email": customer.Email,
		},
	})
	if err != nil {
		message := msgOrderFailed
		if apperrors.Is(err, apperrors.ErrGatewayDeclined) {
			message = err.Error()
		}
		return s.fail(attempt, message, err), nil
	}

	// WidgetOpen: hand control to the external widget and suspend. Only a
	// completion or dismissal event can resume the attempt.
	attempt.mu.Lock()
	attempt.order = order
	attempt.widget = &checkout.Options{
		Key:         key,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Name:        s.checkout.MerchantName,
		Description: s.checkout.PaymentDescription,
		OrderID:     order.ID,
		Prefill: checkout.Prefill{
			Name:    customer.Name,
			Email:   customer.Email,
			Contact: customer.Contact,
		},
		Theme: checkout.Theme{Color: s.checkout.ThemeColor},
	}
	attempt.state = StateWidgetOpen
	attempt.mu.Unlock()

	logger.Info("Payment attempt awaiting widget",
		zap.String("attempt_id", attempt.id),
		zap.String("order_id", order.ID))

	return attempt.view(), nil
}

// HandleCompletion resumes a suspended attempt with the widget's completion
// callback. The backend is the sole authority on success: anything but an
// explicit success from verification fails the attempt.
func (s *PaymentService) HandleCompletion(ctx context.Context, attemptID string, resp models.CheckoutResponse) (*AttemptView, error) {
	attempt, err := s.lookup(attemptID)
	if err != nil {
		return nil, err
	}

	if err := attempt.deliver(checkout.CompletionEvent{Response: resp}, StateVerifying); err != nil {
		return nil, err
	}

	return s.resume(ctx, attempt), nil
}

// HandleDismissal resumes a suspended attempt with the widget's dismissal
// callback. Dismissal is a cancellation, not an error, and triggers no
// verification call.
func (s *PaymentService) HandleDismissal(ctx context.Context, attemptID string) (*AttemptView, error) {
	attempt, err := s.lookup(attemptID)
	if err != nil {
		return nil, err
	}

	if err := attempt.deliver(checkout.DismissalEvent{}, StateCancelled); err != nil {
		return nil, err
	}

	return s.resume(ctx, attempt), nil
}

// Attempt returns the current snapshot of an attempt.
func (s *PaymentService) Attempt(attemptID string) (*AttemptView, error) {
	attempt, err := s.lookup(attemptID)
	if err != nil {
		return nil, err
	}
	return attempt.view(), nil
}

// validateInput enforces the local preconditions: a positive whole-paise
// amount and a complete customer form. Nothing here touches the network.
func (s *PaymentService) validateInput(rawAmount string, customer models.CustomerInfo) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, apperrors.InvalidInputError("amount", msgInvalidAmount)
	}
	if !amount.Mul(paiseFactor).IsInteger() {
		return decimal.Zero, apperrors.InvalidInputError("amount", msgInvalidAmount)
	}

	if err := s.validate.Struct(customer); err != nil {
		return decimal.Zero, apperrors.InvalidInputError("customer", msgMissingCustomer)
	}

	return amount, nil
}

// register installs a new attempt as current, enforcing the one-in-flight
// rule and pruning the previous terminal attempt.
func (s *PaymentService) register(token string, amount decimal.Decimal, rawAmount string, customer models.CustomerInfo) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		if !s.current.currentState().Terminal() {
			return nil, apperrors.ErrAttemptBusy
		}
		delete(s.attempts, s.current.id)
	}

	attempt := &Attempt{
		id:       uuid.NewString(),
		token:    token,
		amount:   amount,
		amountIn: rawAmount,
		customer: customer,
		state:    StateScriptLoading,
		events:   make(chan checkout.Event, 1),
	}

	s.current = attempt
	s.attempts[attempt.id] = attempt
	return attempt, nil
}

func (s *PaymentService) lookup(attemptID string) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[attemptID]
	if !ok {
		return nil, apperrors.ErrUnknownAttempt
	}
	return attempt, nil
}

// resume drains the single delivered event and finishes the attempt.
func (s *PaymentService) resume(ctx context.Context, attempt *Attempt) *AttemptView {
	event := <-attempt.events

	switch ev := event.(type) {
	case checkout.DismissalEvent:
		// deliver already moved the attempt to Cancelled.
		attempt.finish(StateCancelled, &models.PaymentStatus{
			Success: false,
			Message: msgCancelledByUser,
		})
		metrics.PaymentAttempts.WithLabelValues(string(StateCancelled)).Inc()
		logger.Info("Payment attempt cancelled", zap.String("attempt_id", attempt.id))

	case checkout.CompletionEvent:
		s.verify(ctx, attempt, ev.Response)
	}

	return attempt.view()
}

func (s *PaymentService) verify(ctx context.Context, attempt *Attempt, resp models.CheckoutResponse) {
	result, err := s.api.VerifyPayment(ctx, resp)
	if err != nil || !result.Success {
		if err != nil {
			logger.Error("Payment verification request failed",
				zap.String("attempt_id", attempt.id),
				zap.Error(err))
		}
		attempt.finish(StateFailed, &models.PaymentStatus{
			Success: false,
			Message: msgVerificationFailed,
		})
		metrics.PaymentAttempts.WithLabelValues(string(StateFailed)).Inc()
		return
	}

	attempt.finish(StateSucceeded, &models.PaymentStatus{
		Success:   true,
		Message:   msgPaymentSuccess,
		OrderID:   result.OrderID,
		PaymentID: result.PaymentID,
	})
	metrics.PaymentAttempts.WithLabelValues(string(StateSucceeded)).Inc()

	// Exactly one recording call after success. Its failure is surfaced as
	// a warning; the payment itself already completed upstream and is never
	// rolled back.
	if err := s.api.AddTransaction(ctx, attempt.token, models.AddTransactionRequest{
		TransactionID: result.PaymentID,
		Amount:        attempt.amountIn,
	}); err != nil {
		logger.Error("Failed to record transaction after successful payment",
			zap.String("attempt_id", attempt.id),
			zap.String("payment_id", result.PaymentID),
			zap.Error(err))
		attempt.mu.Lock()
		attempt.recordingErr = err
		attempt.mu.Unlock()
	}
}

// fail moves an attempt to Failed with a user-facing message.
func (s *PaymentService) fail(attempt *Attempt, message string, cause error) *AttemptView {
	logger.Warn("Payment attempt failed",
		zap.String("attempt_id", attempt.id),
		zap.String("message", message),
		zap.Error(cause))

	attempt.finish(StateFailed, &models.PaymentStatus{
		Success: false,
		Message: message,
	})
	metrics.PaymentAttempts.WithLabelValues(string(StateFailed)).Inc()
	return attempt.view()
}

func (a *Attempt) currentState() AttemptState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Attempt) setState(state AttemptState) {
	a.mu.Lock()
	a.state = state
	a.mu.Unlock()
}

// deliver enqueues a widget event and moves the attempt out of WidgetOpen
// atomically, so a second event for the same suspension is rejected.
func (a *Attempt) deliver(event checkout.Event, next AttemptState) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateWidgetOpen {
		return apperrors.ErrStaleEvent
	}

	select {
	case a.events <- event:
	default:
		return apperrors.ErrStaleEvent
	}

	a.state = next
	return nil
}

func (a *Attempt) finish(state AttemptState, status *models.PaymentStatus) {
	a.mu.Lock()
	a.state = state
	a.status = status
	a.widget = nil
	a.mu.Unlock()
}

func (a *Attempt) view() *AttemptView {
	a.mu.Lock()
	defer a.mu.Unlock()

	view := &AttemptView{
		ID:     a.id,
		State:  a.state,
		Widget: a.widget,
		Status: a.status,
	}
	if a.recordingErr != nil {
		view.Warning = msgRecordingFailed
	}
	return view
}
