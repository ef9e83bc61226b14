package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "pending"
	StatusApproved PaymentStatus = "approved"
	StatusDenied   PaymentStatus = "denied"
)

// Valid reports whether s is a known status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s PaymentStatus) Terminal() bool {
	return s == StatusApproved || s == StatusDenied
}

// CanTransitionTo reports whether moving from s to next is permitted.
// Only pending payments can be resolved, and only to approved or denied.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return s == StatusPending && next.Terminal()
}

// Payment is a single funds-transfer request.
type Payment struct {
	ID                     uuid.UUID       `json:"_id"`
	UserID                 uuid.UUID       `json:"userId"`
	Amount                 decimal.Decimal `json:"amount"`
	Currency               string          `json:"currency"`
	BeneficiaryName        string          `json:"beneficiaryName"`
	PaymentReference       string          `json:"paymentReference"`
	RecipientAccountNumber string          `json:"recipientAccountNumber"`
	UserAccountNumber      string          `json:"userAccountNumber"`
	Status                 PaymentStatus   `json:"status"`
	Date                   time.Time       `json:"date"`
}

// MarshalJSON writes amount as a bare JSON number so clients can do
// arithmetic on it. The decimal text is emitted unchanged, without rounding.
func (p Payment) MarshalJSON() ([]byte, error) {
	type plain Payment
	return json.Marshal(struct {
		plain
		Amount json.Number `json:"amount"`
	}{plain: plain(p), Amount: json.Number(p.Amount.String())})
}

// Involves reports whether accountNumber is the payer or the recipient.
func (p Payment) Involves(accountNumber string) bool {
	return p.UserAccountNumber == accountNumber || p.RecipientAccountNumber == accountNumber
}
