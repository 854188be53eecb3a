package models

import "time"

// PaymentMethodType is the kind of instrument a user saved.
type PaymentMethodType string

const (
	MethodCreditCard   PaymentMethodType = "credit_card"
	MethodUPI          PaymentMethodType = "upi"
	MethodBankTransfer PaymentMethodType = "bank_transfer"
	MethodNetBanking   PaymentMethodType = "net_banking"
)

// Valid reports whether t is a supported method type.
func (t PaymentMethodType) Valid() bool {
	switch t {
	case MethodCreditCard, MethodUPI, MethodBankTransfer, MethodNetBanking:
		return true
	}
	return false
}

// PaymentMethod is an instrument owned by a user. One user may hold many.
type PaymentMethod struct {
	ID        string            `json:"method_id"`
	UserID    string            `json:"user_id"`
	Type      PaymentMethodType `json:"type"`
	Details   map[string]string `json:"details,omitempty"`
	AddedDate time.Time         `json:"added_date"`
}
