package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType tells which side of the marketplace a payment belongs to.
type PaymentType string

const (
	DriverPayment     PaymentType = "driver_payment"
	AdvertiserPayment PaymentType = "advertiser_payment"
)

// PaymentStatus is the lifecycle state of a payment record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is a single money movement recorded by the payment service.
type Payment struct {
	ID            string          `json:"payment_id"`
	UserID        string          `json:"user_id"`
	Type          PaymentType     `json:"payment_type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	Status        PaymentStatus   `json:"status"`
	Method        string          `json:"payment_method,omitempty"`
	CampaignID    string          `json:"campaign_id,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	InvoiceID     string          `json:"invoice_id,omitempty"`
	CreatedAt     time.Time       `json:"timestamp"`
}

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	switch t {
	case DriverPayment, AdvertiserPayment:
		return true
	}
	return false
}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// Validate checks the record invariants enforced at construction time.
func (p Payment) Validate() error {
	if p.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !p.Type.Valid() {
		return fmt.Errorf("%w: payment type %q", ErrInvalidType, p.Type)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: payment status %q", ErrInvalidStatus, p.Status)
	}
	return nil
}

// PaymentFilter selects payments; zero-valued fields impose no constraint.
type PaymentFilter struct {
	UserID   string
	Type     PaymentType
	DateFrom *time.Time
	DateTo   *time.Time
	Status   PaymentStatus
}

// TrendPoint is the total amount paid on one calendar date.
type TrendPoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// PaymentSummary aggregates a filtered set of payments.
type PaymentSummary struct {
	Count          int             `json:"total_transactions"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PendingCount   int             `json:"pending_payments"`
	CompletedCount int             `json:"completed_payments"`
	Recent         []Payment       `json:"recent"`
	Trend          []TrendPoint    `json:"trend"`
}
