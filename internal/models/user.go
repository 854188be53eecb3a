package models

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// Roles known to the dashboard.
const (
	RoleAdmin      = "admin"
	RoleAdvertiser = "advertiser"
	RoleDriver     = "driver"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Claims struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  string   `json:"role"`
	Pages []string `json:"pages"`
	jwt.StandardClaims
}
