package models

// CustomerInfo is the transient form state collected before a payment
// attempt. It is never persisted.
type CustomerInfo struct {
	Name    string `json:"name" binding:"required" validate:"required"`
	Email   string `json:"email" binding:"required,email" validate:"required,email"`
	Contact string `json:"contact" binding:"required" validate:"required"`
}

// PaymentOrder is a gateway order created by the backend for one payment
// attempt, consumed exactly once by the checkout widget.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

// CreateOrderRequest is the payload sent to the backend to open a gateway
// order. Amount is the entered rupee value; the backend converts it to
// paise when it opens the order (the returned PaymentOrder carries paise).
type CreateOrderRequest struct {
	Amount   float64           `json:"amount"` // rupees
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

// CreateOrderResponse is the backend's answer to an order creation request.
type CreateOrderResponse struct {
	Success bool          `json:"success"`
	Order   *PaymentOrder `json:"order"`
	Message string        `json:"message,omitempty"`
}

// CheckoutResponse carries the three gateway-issued identifiers returned by
// the widget's completion callback. Their presence alone proves nothing;
// only server-side verification does.
type CheckoutResponse struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// PaymentVerificationResult is the backend's verdict on a completed checkout.
type PaymentVerificationResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	OrderID   string `json:"orderId,omitempty"`
	PaymentID string `json:"paymentId,omitempty"`
}

// PaymentStatus is the transient outcome of one payment attempt.
type PaymentStatus struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	OrderID   string `json:"orderId,omitempty"`
	PaymentID string `json:"paymentId,omitempty"`
}
