package payments

import (
	"flowAdsBack/internal/models"
	"flowAdsBack/internal/timeutil"
)

// Matches reports whether p satisfies every non-zero field of f. Date
// bounds are inclusive and compare calendar dates only.
func Matches(p models.Payment, f models.PaymentFilter) bool {
	if f.UserID != "" && p.UserID != f.UserID {
		return false
	}
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.DateFrom == nil && f.DateTo == nil {
		return true
	}
	day := timeutil.DateOf(p.CreatedAt)
	if f.DateFrom != nil && day.Before(timeutil.DateOf(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && day.After(timeutil.DateOf(*f.DateTo)) {
		return false
	}
	return true
}
