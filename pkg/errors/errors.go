package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrSessionAbsent indicates there is no persisted session value
	ErrSessionAbsent = errors.New("session absent")

	// ErrSessionExpired indicates the persisted session has passed its expiry
	ErrSessionExpired = errors.New("session expired")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedPayload indicates an upstream response that failed shape validation
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrUpstream indicates a transport-level failure talking to the backend
	ErrUpstream = errors.New("upstream request failed")

	// ErrGatewayDeclined indicates the backend reported success:false on order creation
	ErrGatewayDeclined = errors.New("gateway declined")

	// ErrVerificationFailed indicates the backend did not confirm the payment
	ErrVerificationFailed = errors.New("payment verification failed")

	// ErrScriptLoad indicates the checkout script could not be loaded
	ErrScriptLoad = errors.New("checkout script load failed")

	// ErrAttemptBusy indicates a payment attempt is already in flight
	ErrAttemptBusy = errors.New("payment attempt in progress")

	// ErrUnknownAttempt indicates an event referenced no live payment attempt
	ErrUnknownAttempt = errors.New("unknown payment attempt")

	// ErrStaleEvent indicates a widget event arrived for an attempt that is
	// not suspended on the widget
	ErrStaleEvent = errors.New("attempt not awaiting widget events")
)

// GatewayDeclinedError carries the backend-provided message for a declined
// order creation. errors.Is(err, ErrGatewayDeclined) matches it.
type GatewayDeclinedError struct {
	Message string
}

func (e *GatewayDeclinedError) Error() string {
	return e.Message
}

func (e *GatewayDeclinedError) Is(target error) bool {
	return target == ErrGatewayDeclined
}

// InputError carries the user-facing message for a rejected form field.
// errors.Is(err, ErrInvalidInput) matches it.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return &InputError{Field: field, Message: reason}
}

// MalformedPayloadError creates a malformed payload error naming the operation
func MalformedPayloadError(operation, reason string) error {
	return fmt.Errorf("%s: %s: %w", operation, reason, ErrMalformedPayload)
}

// UpstreamError wraps a transport failure with the failing operation
func UpstreamError(operation string, err error) error {
	return fmt.Errorf("%s: %v: %w", operation, err, ErrUpstream)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
