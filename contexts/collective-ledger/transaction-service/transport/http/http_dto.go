package httptransport

import "time"

// CreateTransactionRequest nests the payload under "transaction", matching
// the envelope convention of the rest of the API.
type CreateTransactionRequest struct {
	Transaction *TransactionPayload `json:"transaction"`
}

type TransactionPayload struct {
	Beneficiary string `json:"beneficiary,omitempty"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency,omitempty"`
	Description string `json:"description,omitempty"`
}

// ApproveRequest carries the explicit approval decision. The field must be
// present; its absence is a validation failure rather than an implicit yes.
type ApproveRequest struct {
	Approved *bool `json:"approved"`
}

// PaymentRequest is the donation payload.
type PaymentRequest struct {
	Payment *PaymentPayload `json:"payment"`
}

type PaymentPayload struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency,omitempty"`
	Description string `json:"description,omitempty"`
	Service     string `json:"service"`
}

// PayRequest selects the payment service for a pay-key mint.
type PayRequest struct {
	Service string `json:"service"`
}

type TransactionResponse struct {
	ID          int64     `json:"id"`
	GroupID     int64     `json:"GroupId"`
	UserID      *int64    `json:"UserId"`
	Beneficiary string    `json:"beneficiary,omitempty"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Description string    `json:"description,omitempty"`
	State       string    `json:"state"`
	PayKey      string    `json:"payKey,omitempty"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ActivityResponse struct {
	ID            int64          `json:"id"`
	Type          string         `json:"type"`
	GroupID       int64          `json:"GroupId"`
	UserID        *int64         `json:"UserId"`
	TransactionID int64          `json:"TransactionId"`
	Data          map[string]any `json:"data,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}
