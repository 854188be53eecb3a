package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"flowAdsBack/internal/models"
)

func TestMemoryPaymentsKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	for _, id := range []string{"c", "a", "b"} {
		if err := s.Payments().Append(ctx, models.Payment{ID: id, Amount: decimal.NewFromInt(1)}); err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}
	list, err := s.Payments().List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []string{list[0].ID, list[1].ID, list[2].ID}
	if got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestMemoryPaymentsReplace(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	p := models.Payment{ID: "p1", Status: models.PaymentPending}
	if err := s.Payments().Append(ctx, p); err != nil {
		t.Fatalf("append: %v", err)
	}
	p.Status = models.PaymentCompleted
	if err := s.Payments().Replace(ctx, p); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := s.Payments().Get(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.PaymentCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
	if err := s.Payments().Replace(ctx, models.Payment{ID: "missing"}); !errors.Is(err, models.ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord, got %v", err)
	}
	if _, err := s.Payments().Get(ctx, "missing"); !errors.Is(err, models.ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord, got %v", err)
	}
}

func TestMemoryInvoicesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	inv := models.Invoice{
		ID:        "INV-1",
		Items:     []models.InvoiceItem{{Description: "Ad slot", Amount: decimal.NewFromInt(100)}},
		IssueDate: time.Now(),
		DueDate:   time.Now(),
	}
	if err := s.Invoices().Append(ctx, inv); err != nil {
		t.Fatalf("append: %v", err)
	}
	inv.Items[0].Description = "mutated"

	got, err := s.Invoices().Get(ctx, "INV-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Items[0].Description != "Ad slot" {
		t.Fatalf("stored invoice aliased caller slice: %q", got.Items[0].Description)
	}
	got.Items[0].Description = "mutated again"
	again, _ := s.Invoices().Get(ctx, "INV-1")
	if again.Items[0].Description != "Ad slot" {
		t.Fatal("returned invoice aliased stored slice")
	}
}

func TestMemoryMethodsByUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	methods := []models.PaymentMethod{
		{ID: "m1", UserID: "u1", Type: models.MethodUPI},
		{ID: "m2", UserID: "u2", Type: models.MethodCreditCard},
		{ID: "m3", UserID: "u1", Type: models.MethodNetBanking},
	}
	for _, m := range methods {
		if err := s.Methods().Append(ctx, m); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, err := s.Methods().ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "m1" || got[1].ID != "m3" {
		t.Fatalf("unexpected methods %+v", got)
	}
	none, _ := s.Methods().ListByUser(ctx, "nobody")
	if len(none) != 0 {
		t.Fatalf("expected no methods, got %d", len(none))
	}
}
