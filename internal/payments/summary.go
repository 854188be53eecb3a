package payments

import (
	"sort"

	"github.com/shopspring/decimal"

	"flowAdsBack/internal/models"
	"flowAdsBack/internal/timeutil"
)

const recentLimit = 10

// Summarize computes totals, the newest payments and the per-date trend.
func Summarize(list []models.Payment) models.PaymentSummary {
	sum := models.PaymentSummary{
		Count:       len(list),
		TotalAmount: decimal.Zero,
		Recent:      []models.Payment{},
		Trend:       []models.TrendPoint{},
	}
	byDate := map[string]decimal.Decimal{}
	for _, p := range list {
		sum.TotalAmount = sum.TotalAmount.Add(p.Amount)
		switch p.Status {
		case models.PaymentPending:
			sum.PendingCount++
		case models.PaymentCompleted:
			sum.CompletedCount++
		}
		d := timeutil.FormatDate(p.CreatedAt)
		if cur, ok := byDate[d]; ok {
			byDate[d] = cur.Add(p.Amount)
		} else {
			byDate[d] = p.Amount
		}
	}

	recent := make([]models.Payment, len(list))
	copy(recent, list)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	sum.Recent = recent

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		sum.Trend = append(sum.Trend, models.TrendPoint{Date: d, Amount: byDate[d]})
	}
	return sum
}
