package payments

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"flowAdsBack/internal/models"
)

// Banks offered for net banking.
var Banks = []string{"HDFC Bank", "ICICI Bank", "State Bank of India", "Axis Bank", "Kotak Mahindra Bank"}

// CardDetails are the fields of a card payment.
type CardDetails struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	NameOnCard string `json:"name_on_card"`
}

// PaymentForm is a payment submitted from the dashboard.
type PaymentForm struct {
	UserID        string                   `json:"user_id" validate:"required"`
	UserType      string                   `json:"user_type" validate:"required,oneof=advertiser driver"`
	Amount        decimal.Decimal          `json:"amount" validate:"gt=0"`
	Description   string                   `json:"description"`
	Method        models.PaymentMethodType `json:"payment_method" validate:"required,oneof=credit_card upi bank_transfer net_banking"`
	Card          *CardDetails             `json:"card,omitempty"`
	UPIID         string                   `json:"upi_id,omitempty"`
	Bank          string                   `json:"bank,omitempty"`
	TermsAccepted bool                     `json:"terms_accepted" validate:"eq=true"`
}

// ValidationError carries one message per rejected form field.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid payment form: " + strings.Join(parts, "; ")
}

var fieldMessages = map[string]string{
	"UserID":        "User is required.",
	"UserType":      "User type must be advertiser or driver.",
	"Amount":        "Please enter a valid amount.",
	"Method":        "Please select a payment method.",
	"TermsAccepted": "Please accept the terms and conditions to proceed.",
	"Card":          "Please fill in all card details.",
	"CardNumber":    "Please enter a valid 16-digit card number.",
	"UPIID":         "Please enter a valid UPI ID.",
	"Bank":          "Please select your bank.",
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterStructValidation(paymentFormRules, PaymentForm{})
	return v
}

func paymentFormRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(PaymentForm)
	switch f.Method {
	case models.MethodCreditCard:
		c := f.Card
		if c == nil || c.Number == "" || c.Expiry == "" || c.CVV == "" || c.NameOnCard == "" {
			sl.ReportError(f.Card, "Card", "Card", "card_complete", "")
			return
		}
		if !validCardNumber(c.Number) {
			sl.ReportError(c.Number, "CardNumber", "CardNumber", "card_number", "")
		}
	case models.MethodUPI:
		if f.UPIID == "" || !strings.Contains(f.UPIID, "@") {
			sl.ReportError(f.UPIID, "UPIID", "UPIID", "upi_id", "")
		}
	case models.MethodNetBanking:
		if f.Bank == "" {
			sl.ReportError(f.Bank, "Bank", "Bank", "required", "")
		}
	}
}

func validCardNumber(n string) bool {
	digits := strings.ReplaceAll(n, " ", "")
	if len(digits) != 16 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateForm checks f and returns a *ValidationError listing every
// rejected field.
func ValidateForm(f PaymentForm) error {
	err := formValidator.Struct(f)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &ValidationError{Fields: map[string]string{}}
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.StructField()]
		if !ok {
			msg = fmt.Sprintf("failed on %s", fe.Tag())
		}
		out.Fields[fe.StructField()] = msg
	}
	return out
}

// SubmitPaymentForm validates a dashboard payment and records it as
// completed. Nothing is recorded when validation fails.
func (s *Service) SubmitPaymentForm(ctx context.Context, f PaymentForm) (models.Payment, error) {
	if err := ValidateForm(f); err != nil {
		return models.Payment{}, err
	}
	return s.AddPayment(ctx, models.Payment{
		UserID:      f.UserID,
		Type:        models.PaymentType(f.UserType + "_payment"),
		Amount:      f.Amount,
		Description: f.Description,
		Method:      string(f.Method),
		Status:      models.PaymentCompleted,
	})
}
