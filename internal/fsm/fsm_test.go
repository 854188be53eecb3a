package fsm

import (
	"testing"

	"flowAdsBack/internal/models"
)

func TestCanTransitionPayment(t *testing.T) {
	if !CanTransitionPayment(models.PaymentPending, models.PaymentCompleted) {
		t.Fatal("expected pending -> completed to be allowed")
	}
	if !CanTransitionPayment(models.PaymentPending, models.PaymentFailed) {
		t.Fatal("expected pending -> failed to be allowed")
	}
	if CanTransitionPayment(models.PaymentCompleted, models.PaymentPending) {
		t.Fatal("unexpected transition allowed")
	}
	if CanTransitionPayment(models.PaymentFailed, models.PaymentCompleted) {
		t.Fatal("unexpected transition allowed")
	}
	if !CanTransitionPayment(models.PaymentCompleted, models.PaymentCompleted) {
		t.Fatal("expected same-status transition to be allowed")
	}
}

func TestCanTransitionInvoice(t *testing.T) {
	if !CanTransitionInvoice(models.InvoicePending, models.InvoiceOverdue) {
		t.Fatal("expected pending -> overdue to be allowed")
	}
	if !CanTransitionInvoice(models.InvoiceOverdue, models.InvoicePaid) {
		t.Fatal("expected overdue -> paid to be allowed")
	}
	if CanTransitionInvoice(models.InvoicePaid, models.InvoicePending) {
		t.Fatal("unexpected transition allowed")
	}
	if CanTransitionInvoice("refunded", models.InvoicePaid) {
		t.Fatal("unknown status must not transition")
	}
}
