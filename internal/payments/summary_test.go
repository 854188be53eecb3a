package payments

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowAdsBack/internal/models"
)

func TestSummarizeTrendGroupsByDate(t *testing.T) {
	s, c := newTestService(t)
	ctx := context.Background()
	add := func(date string, amount int64) {
		c.t = day(t, date).Add(12 * time.Hour)
		_, err := s.AddPayment(ctx, models.Payment{UserID: "u", Type: models.DriverPayment, Amount: decimal.NewFromInt(amount), Status: models.PaymentCompleted})
		require.NoError(t, err)
	}
	add("2024-03-05", 30)
	add("2024-03-01", 100)
	add("2024-03-01", 50)

	sum, err := s.Summary(ctx, models.PaymentFilter{})
	require.NoError(t, err)
	require.Len(t, sum.Trend, 2)
	assert.Equal(t, "2024-03-01", sum.Trend[0].Date)
	assert.True(t, sum.Trend[0].Amount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "2024-03-05", sum.Trend[1].Date)
	assert.True(t, sum.Trend[1].Amount.Equal(decimal.NewFromInt(30)))
	assert.True(t, sum.TotalAmount.Equal(decimal.NewFromInt(180)))
	assert.Equal(t, 3, sum.Count)
	assert.Equal(t, 3, sum.CompletedCount)
}

func TestSummarizeRecentNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var list []models.Payment
	for i := 0; i < 12; i++ {
		status := models.PaymentCompleted
		if i%3 == 0 {
			status = models.PaymentPending
		}
		list = append(list, models.Payment{
			ID:        string(rune('a' + i)),
			Amount:    decimal.NewFromInt(int64(i)),
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	sum := Summarize(list)
	require.Len(t, sum.Recent, 10)
	assert.Equal(t, "l", sum.Recent[0].ID)
	assert.Equal(t, "c", sum.Recent[9].ID)
	assert.Equal(t, 4, sum.PendingCount)
	assert.Equal(t, 8, sum.CompletedCount)
	assert.Equal(t, "a", list[0].ID, "input must not be reordered")
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)
	assert.Equal(t, 0, sum.Count)
	assert.True(t, sum.TotalAmount.IsZero())
	assert.Empty(t, sum.Recent)
	assert.Empty(t, sum.Trend)
}
