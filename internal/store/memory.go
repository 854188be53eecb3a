package store

import (
	"context"
	"sync"

	"flowAdsBack/internal/models"
)

// Memory is the in-process fixture store used for tests and demo mode.
type Memory struct {
	payments *memoryPayments
	invoices *memoryInvoices
	methods  *memoryMethods
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		payments: &memoryPayments{},
		invoices: &memoryInvoices{},
		methods:  &memoryMethods{},
	}
}

func (m *Memory) Payments() PaymentStore { return m.payments }
func (m *Memory) Invoices() InvoiceStore { return m.invoices }
func (m *Memory) Methods() MethodStore   { return m.methods }
func (m *Memory) Close() error           { return nil }

type memoryPayments struct {
	mu    sync.RWMutex
	items []models.Payment
}

func (s *memoryPayments) Append(_ context.Context, p models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, p)
	return nil
}

func (s *memoryPayments) List(_ context.Context) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Payment, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *memoryPayments) Get(_ context.Context, id string) (models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.items {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Payment{}, models.ErrNoRecord
}

func (s *memoryPayments) Replace(_ context.Context, p models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i] = p
			return nil
		}
	}
	return models.ErrNoRecord
}

type memoryInvoices struct {
	mu    sync.RWMutex
	items []models.Invoice
}

func (s *memoryInvoices) Append(_ context.Context, inv models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, cloneInvoice(inv))
	return nil
}

func (s *memoryInvoices) List(_ context.Context) ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Invoice, 0, len(s.items))
	for _, inv := range s.items {
		out = append(out, cloneInvoice(inv))
	}
	return out, nil
}

func (s *memoryInvoices) Get(_ context.Context, id string) (models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.items {
		if inv.ID == id {
			return cloneInvoice(inv), nil
		}
	}
	return models.Invoice{}, models.ErrNoRecord
}

func (s *memoryInvoices) Replace(_ context.Context, inv models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == inv.ID {
			s.items[i] = cloneInvoice(inv)
			return nil
		}
	}
	return models.ErrNoRecord
}

type memoryMethods struct {
	mu    sync.RWMutex
	items []models.PaymentMethod
}

func (s *memoryMethods) Append(_ context.Context, m models.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, cloneMethod(m))
	return nil
}

func (s *memoryMethods) ListByUser(_ context.Context, userID string) ([]models.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.PaymentMethod
	for _, m := range s.items {
		if m.UserID == userID {
			out = append(out, cloneMethod(m))
		}
	}
	return out, nil
}

func cloneInvoice(inv models.Invoice) models.Invoice {
	if inv.Items != nil {
		items := make([]models.InvoiceItem, len(inv.Items))
		copy(items, inv.Items)
		inv.Items = items
	}
	if inv.PaidAt != nil {
		t := *inv.PaidAt
		inv.PaidAt = &t
	}
	return inv
}

func cloneMethod(m models.PaymentMethod) models.PaymentMethod {
	if m.Details != nil {
		d := make(map[string]string, len(m.Details))
		for k, v := range m.Details {
			d[k] = v
		}
		m.Details = d
	}
	return m
}
