package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

// InvoiceItem is one billed line.
type InvoiceItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice represents an invoice issued to an advertiser or a driver.
type Invoice struct {
	ID        string          `json:"invoice_id"`
	UserID    string          `json:"user_id"`
	UserType  string          `json:"user_type"`
	Amount    decimal.Decimal `json:"amount"`
	Items     []InvoiceItem   `json:"items"`
	IssueDate time.Time       `json:"issue_date"`
	DueDate   time.Time       `json:"due_date"`
	Status    InvoiceStatus   `json:"status"`
	PaymentID string          `json:"payment_id,omitempty"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
}

// Validate checks the record invariants enforced at construction time.
func (inv Invoice) Validate() error {
	if inv.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	for _, it := range inv.Items {
		if it.Amount.IsNegative() {
			return fmt.Errorf("%w: item %q", ErrInvalidAmount, it.Description)
		}
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return ErrInvalidDueDate
	}
	if !inv.Status.Valid() {
		return fmt.Errorf("%w: invoice status %q", ErrInvalidStatus, inv.Status)
	}
	return nil
}

// ItemsTotal sums the item amounts.
func (inv Invoice) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range inv.Items {
		total = total.Add(it.Amount)
	}
	return total
}

// InvoiceFilter selects invoices; zero-valued fields impose no constraint.
type InvoiceFilter struct {
	UserID string
	Status InvoiceStatus
}
