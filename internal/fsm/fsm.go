package fsm

import "flowAdsBack/internal/models"

var paymentTransitions = map[models.PaymentStatus]map[models.PaymentStatus]struct{}{
	models.PaymentPending: {
		models.PaymentCompleted: {},
		models.PaymentFailed:    {},
	},
	models.PaymentCompleted: {},
	models.PaymentFailed:    {},
}

var invoiceTransitions = map[models.InvoiceStatus]map[models.InvoiceStatus]struct{}{
	models.InvoicePending: {
		models.InvoicePaid:    {},
		models.InvoiceOverdue: {},
	},
	models.InvoiceOverdue: {
		models.InvoicePaid: {},
	},
	models.InvoicePaid: {},
}

// CanTransitionPayment returns whether a payment may move from one status to another.
func CanTransitionPayment(from, to models.PaymentStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := paymentTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// CanTransitionInvoice returns whether an invoice may move from one status to another.
func CanTransitionInvoice(from, to models.InvoiceStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := invoiceTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}
