// Package store holds payments, invoices and payment methods as ordered
// sequences of records. It has no behavior of its own: ids, timestamps and
// validation belong to the services that write through it.
package store

import (
	"context"

	"flowAdsBack/internal/models"
)

// PaymentStore keeps payments in insertion order.
type PaymentStore interface {
	Append(ctx context.Context, p models.Payment) error
	List(ctx context.Context) ([]models.Payment, error)
	Get(ctx context.Context, id string) (models.Payment, error)
	Replace(ctx context.Context, p models.Payment) error
}

// InvoiceStore keeps invoices in insertion order.
type InvoiceStore interface {
	Append(ctx context.Context, inv models.Invoice) error
	List(ctx context.Context) ([]models.Invoice, error)
	Get(ctx context.Context, id string) (models.Invoice, error)
	Replace(ctx context.Context, inv models.Invoice) error
}

// MethodStore keeps saved payment methods.
type MethodStore interface {
	Append(ctx context.Context, m models.PaymentMethod) error
	ListByUser(ctx context.Context, userID string) ([]models.PaymentMethod, error)
}

// Store groups the record sequences used by the payment and invoice services.
type Store interface {
	Payments() PaymentStore
	Invoices() InvoiceStore
	Methods() MethodStore
	Close() error
}
