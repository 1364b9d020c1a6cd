// Package checkout models the portal's side of the Razorpay checkout
// widget: the options handed to it, the script availability probe, and the
// two events the widget can send back. The widget itself runs in the
// student's browser and is opaque to the portal.
package checkout

import (
	"context"
	"fmt"
	"net/http"

	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/models"
	apperrors "github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/errors"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/httpclient"
)

// Prefill pre-populates the widget's customer fields.
type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// Theme styles the widget.
type Theme struct {
	Color string `json:"color"`
}

// Options is everything the browser needs to open the widget for one order.
type Options struct {
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"` // paise
	Currency    string  `json:"currency"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	OrderID     string  `json:"order_id"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`
}

// Event is one of the two signals the widget can send back: completion or
// dismissal. Nothing else can resume a suspended attempt.
type Event interface {
	isCheckoutEvent()
}

// CompletionEvent means the student completed payment in the widget. It
// carries the gateway identifiers; it does NOT mean the payment is genuine.
type CompletionEvent struct {
	Response models.CheckoutResponse
}

// DismissalEvent means the student closed the widget without paying.
type DismissalEvent struct{}

func (CompletionEvent) isCheckoutEvent() {}
func (DismissalEvent) isCheckoutEvent()  {}

// ScriptLoader ensures the external checkout script is available before an
// order is opened.
type ScriptLoader interface {
	Load(ctx context.Context) error
}

// HTTPScriptLoader probes the checkout script URL. A failed probe is
// terminal for the attempt; it is never retried.
type HTTPScriptLoader struct {
	scriptURL  string
	httpClient httpclient.Client
}

// NewHTTPScriptLoader creates a script loader for the given script URL.
func NewHTTPScriptLoader(scriptURL string, httpClient httpclient.Client) *HTTPScriptLoader {
	return &HTTPScriptLoader{
		scriptURL:  scriptURL,
		httpClient: httpClient,
	}
}

// Load checks the checkout script is reachable.
func (l *HTTPScriptLoader) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, l.scriptURL, nil)
	if err != nil {
		return fmt.Errorf("build script probe: %w", apperrors.ErrScriptLoad)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%v: %w", err, apperrors.ErrScriptLoad)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("script probe status %d: %w", resp.StatusCode, apperrors.ErrScriptLoad)
	}

	return nil
}
