package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"flowAdsBack/internal/fsm"
	"flowAdsBack/internal/models"
	"flowAdsBack/internal/store"
	"flowAdsBack/internal/timeutil"
)

// DefaultDueDays is the payment term applied when no due date is given.
const DefaultDueDays = 15

// ErrNotPayable is returned when an invoice has already been settled.
var ErrNotPayable = errors.New("invoices: invoice is not payable")

// PaymentRecorder is the subset of the payment service invoices depend on.
type PaymentRecorder interface {
	AddPayment(ctx context.Context, p models.Payment) (models.Payment, error)
	GetPayment(ctx context.Context, id string) (models.Payment, error)
}

// Service issues invoices and tracks their settlement.
type Service struct {
	store    store.Store
	payments PaymentRecorder
	dueDays  int
	now      func() time.Time
}

// NewService wires an invoice service. dueDays <= 0 selects DefaultDueDays.
func NewService(st store.Store, payments PaymentRecorder, dueDays int) *Service {
	if dueDays <= 0 {
		dueDays = DefaultDueDays
	}
	return &Service{store: st, payments: payments, dueDays: dueDays, now: timeutil.Now}
}

// CreateInvoice issues a pending invoice dated today. A nil dueDate means
// today plus the configured payment term.
func (s *Service) CreateInvoice(ctx context.Context, userID, userType string, amount decimal.Decimal, items []models.InvoiceItem, dueDate *time.Time) (models.Invoice, error) {
	issue := timeutil.DateOf(s.now())
	due := issue.AddDate(0, 0, s.dueDays)
	if dueDate != nil {
		due = timeutil.DateOf(*dueDate)
	}
	if items == nil {
		items = []models.InvoiceItem{}
	}
	inv := models.Invoice{
		ID:        models.NewShortID("INV-"),
		UserID:    userID,
		UserType:  userType,
		Amount:    amount,
		Items:     items,
		IssueDate: issue,
		DueDate:   due,
		Status:    models.InvoicePending,
	}
	if err := inv.Validate(); err != nil {
		return models.Invoice{}, err
	}
	if err := s.store.Invoices().Append(ctx, inv); err != nil {
		return models.Invoice{}, fmt.Errorf("append invoice: %w", err)
	}
	return inv, nil
}

// GetInvoices returns invoices matching the filter in insertion order.
func (s *Service) GetInvoices(ctx context.Context, f models.InvoiceFilter) ([]models.Invoice, error) {
	all, err := s.store.Invoices().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	out := make([]models.Invoice, 0, len(all))
	for _, inv := range all {
		if f.UserID != "" && inv.UserID != f.UserID {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

// GetInvoice returns the invoice with the given id or models.ErrNoRecord.
func (s *Service) GetInvoice(ctx context.Context, id string) (models.Invoice, error) {
	return s.store.Invoices().Get(ctx, id)
}

// PayInvoice opens a pending payment for the invoice and links the two.
// The invoice stays unpaid until SettlePayment sees the payment complete.
func (s *Service) PayInvoice(ctx context.Context, id string, method models.PaymentMethodType) (models.Invoice, models.Payment, error) {
	inv, err := s.store.Invoices().Get(ctx, id)
	if err != nil {
		return models.Invoice{}, models.Payment{}, err
	}
	if !fsm.CanTransitionInvoice(inv.Status, models.InvoicePaid) || inv.Status == models.InvoicePaid {
		return models.Invoice{}, models.Payment{}, fmt.Errorf("%w: %s is %s", ErrNotPayable, inv.ID, inv.Status)
	}
	if inv.PaymentID != "" {
		if p, err := s.payments.GetPayment(ctx, inv.PaymentID); err == nil && p.Status == models.PaymentPending {
			return inv, p, nil
		}
	}

	p, err := s.payments.AddPayment(ctx, models.Payment{
		UserID:      inv.UserID,
		Type:        paymentTypeFor(inv.UserType),
		Amount:      inv.Amount,
		Description: "Invoice " + inv.ID,
		Method:      string(method),
		Status:      models.PaymentPending,
		InvoiceID:   inv.ID,
	})
	if err != nil {
		return models.Invoice{}, models.Payment{}, err
	}
	inv.PaymentID = p.ID
	if err := s.store.Invoices().Replace(ctx, inv); err != nil {
		return models.Invoice{}, models.Payment{}, fmt.Errorf("link payment: %w", err)
	}
	return inv, p, nil
}

// SettlePayment marks the invoice linked to a completed payment as paid.
// It returns false when the payment has no invoice, is not completed, or is
// not the payment PayInvoice opened for that invoice.
func (s *Service) SettlePayment(ctx context.Context, payment models.Payment) (models.Invoice, bool, error) {
	if payment.InvoiceID == "" || payment.Status != models.PaymentCompleted {
		return models.Invoice{}, false, nil
	}
	inv, err := s.store.Invoices().Get(ctx, payment.InvoiceID)
	if err != nil {
		return models.Invoice{}, false, err
	}
	if inv.Status == models.InvoicePaid || inv.PaymentID == "" || inv.PaymentID != payment.ID {
		return inv, false, nil
	}
	if !fsm.CanTransitionInvoice(inv.Status, models.InvoicePaid) {
		return models.Invoice{}, false, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, inv.Status, models.InvoicePaid)
	}
	paidAt := s.now()
	inv.Status = models.InvoicePaid
	inv.PaidAt = &paidAt
	if err := s.store.Invoices().Replace(ctx, inv); err != nil {
		return models.Invoice{}, false, fmt.Errorf("settle invoice: %w", err)
	}
	return inv, true, nil
}

// MarkOverdue flips every pending invoice whose due date has passed to
// overdue and returns how many changed.
func (s *Service) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	all, err := s.store.Invoices().List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list invoices: %w", err)
	}
	today := timeutil.DateOf(now)
	n := 0
	for _, inv := range all {
		if inv.Status != models.InvoicePending || !timeutil.DateOf(inv.DueDate).Before(today) {
			continue
		}
		inv.Status = models.InvoiceOverdue
		if err := s.store.Invoices().Replace(ctx, inv); err != nil {
			return n, fmt.Errorf("mark %s overdue: %w", inv.ID, err)
		}
		n++
	}
	return n, nil
}

// ItemsMismatch reports whether the items do not add up to the invoice amount.
func ItemsMismatch(inv models.Invoice) bool {
	return !inv.ItemsTotal().Equal(inv.Amount)
}

func paymentTypeFor(userType string) models.PaymentType {
	if userType == models.RoleDriver {
		return models.DriverPayment
	}
	return models.AdvertiserPayment
}
