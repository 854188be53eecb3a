// Package auth issues the role-label tokens used by the dashboards.
// Tokens only carry the role and its page list; they are not an access
// control mechanism.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"

	"flowAdsBack/internal/models"
)

var (
	ErrEmptySigningKey = errors.New("auth: empty signing key")
	ErrUnknownRole     = errors.New("auth: unknown role")
	ErrInvalidToken    = errors.New("auth: invalid token")
)

// DefaultTTL is the lifetime of an issued session token.
const DefaultTTL = 24 * time.Hour

var pagesAccess = map[string][]string{
	models.RoleAdmin: {
		"dashboard", "admin_panel", "advertiser_dashboard", "driver_dashboard",
		"campaigns", "analytics", "payments", "locations", "help_support",
	},
	models.RoleDriver: {
		"dashboard", "driver_dashboard", "payments", "help_support",
	},
	models.RoleAdvertiser: {
		"dashboard", "advertiser_dashboard", "campaigns", "analytics",
		"payments", "locations", "help_support",
	},
}

var demoNames = map[string]string{
	models.RoleAdmin:      "Admin",
	models.RoleDriver:     "Driver",
	models.RoleAdvertiser: "Advertiser",
}

// Pages returns the pages a role may open.
func Pages(role string) ([]string, error) {
	pages, ok := pagesAccess[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	out := make([]string, len(pages))
	copy(out, pages)
	return out, nil
}

type Manager struct {
	signingKey string
	ttl        time.Duration
	now        func() time.Time
}

func NewManager(signingKey string) (*Manager, error) {
	if signingKey == "" {
		return nil, ErrEmptySigningKey
	}
	return &Manager{signingKey: signingKey, ttl: DefaultTTL, now: time.Now}, nil
}

// Demo issues a token for the fixed demo identity of role.
func (m *Manager) Demo(role string) (string, models.Claims, error) {
	name, ok := demoNames[role]
	if !ok {
		return "", models.Claims{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return m.issue("", name, role+"@flowadscab.com", role)
}

// ForUser issues a token for a stored user.
func (m *Manager) ForUser(u models.User) (string, models.Claims, error) {
	return m.issue(strconv.FormatInt(u.ID, 10), u.Name, u.Email, u.Role)
}

func (m *Manager) issue(subject, name, email, role string) (string, models.Claims, error) {
	pages, err := Pages(role)
	if err != nil {
		return "", models.Claims{}, err
	}
	now := m.now()
	claims := models.Claims{
		Name:  name,
		Email: email,
		Role:  role,
		Pages: pages,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.ttl).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.signingKey))
	if err != nil {
		return "", models.Claims{}, err
	}
	return token, claims, nil
}

func (m *Manager) Parse(accessToken string) (models.Claims, error) {
	var claims models.Claims
	token, err := jwt.ParseWithClaims(accessToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.signingKey), nil
	})
	if err != nil {
		return models.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return models.Claims{}, ErrInvalidToken
	}
	return claims, nil
}

type ctxKey struct{}

// WithClaims attaches the session claims to ctx.
func WithClaims(ctx context.Context, c models.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the claims attached by WithClaims.
func FromContext(ctx context.Context) (models.Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(models.Claims)
	return c, ok
}
