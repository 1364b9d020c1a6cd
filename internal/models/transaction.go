package models

import "time"

// Transaction is a completed payment as recorded by the backend ledger.
type Transaction struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Date          int64   `json:"date"` // epoch milliseconds
	StudentID     string  `json:"student_id"`
}

// DateTime converts the epoch-millisecond date into a time.Time.
func (t *Transaction) DateTime() time.Time {
	return time.UnixMilli(t.Date)
}

// AddTransactionRequest records a verified payment against the student,
// carrying the gateway payment id and the originally entered amount.
type AddTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
}
