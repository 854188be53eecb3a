package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"flowAdsBack/internal/models"
)

func TestNewManagerRequiresKey(t *testing.T) {
	if _, err := NewManager(""); !errors.Is(err, ErrEmptySigningKey) {
		t.Fatalf("expected ErrEmptySigningKey, got %v", err)
	}
}

func TestDemoTokensCarryRolePages(t *testing.T) {
	m, err := NewManager("secret")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	cases := []struct {
		role  string
		pages int
	}{
		{models.RoleAdmin, 9},
		{models.RoleDriver, 4},
		{models.RoleAdvertiser, 7},
	}
	for _, tc := range cases {
		token, claims, err := m.Demo(tc.role)
		if err != nil {
			t.Fatalf("demo %s: %v", tc.role, err)
		}
		if len(claims.Pages) != tc.pages {
			t.Fatalf("%s: expected %d pages, got %v", tc.role, tc.pages, claims.Pages)
		}
		parsed, err := m.Parse(token)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.role, err)
		}
		if parsed.Role != tc.role || parsed.Email != tc.role+"@flowadscab.com" {
			t.Fatalf("unexpected claims %+v", parsed)
		}
	}
	if _, _, err := m.Demo("owner"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	m, _ := NewManager("secret")
	other, _ := NewManager("other")
	token, _, err := other.ForUser(models.User{ID: 1, Name: "A", Role: models.RoleDriver})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	m.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	token, _, _ = m.ForUser(models.User{ID: 1, Name: "A", Role: models.RoleDriver})
	if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestPagesReturnsCopy(t *testing.T) {
	p, _ := Pages(models.RoleDriver)
	p[0] = "changed"
	again, _ := Pages(models.RoleDriver)
	if again[0] != "dashboard" {
		t.Fatalf("pages list was mutated: %v", again)
	}
}

func TestClaimsContext(t *testing.T) {
	ctx := WithClaims(context.Background(), models.Claims{Role: models.RoleAdmin})
	c, ok := FromContext(ctx)
	if !ok || c.Role != models.RoleAdmin {
		t.Fatalf("claims not found in context")
	}
	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("expected no claims")
	}
}
