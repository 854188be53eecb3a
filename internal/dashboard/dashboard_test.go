package dashboard

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowAdsBack/internal/models"
)

func TestAdvertiserTotals(t *testing.T) {
	st := Advertiser([]models.Campaign{
		{Status: models.CampaignActive, Impressions: 15000, Views: 8750, Spent: 12500},
		{Status: models.CampaignScheduled},
		{Status: models.CampaignActive, Impressions: 20000, Views: 12000, Spent: 18000},
	})
	assert.Equal(t, 2, st.ActiveCampaigns)
	assert.Equal(t, int64(35000), st.TotalImpressions)
	assert.Equal(t, int64(20750), st.TotalViews)
	assert.Equal(t, int64(30500), st.TotalSpent)

	empty := Advertiser(nil)
	assert.NotNil(t, empty.Campaigns)
	assert.Zero(t, empty.ActiveCampaigns)
}

func TestAdminTotals(t *testing.T) {
	st := Admin(
		[]models.Campaign{
			{Status: models.CampaignActive, Budget: 50000},
			{Status: models.CampaignScheduled, Budget: 75000},
			{Status: models.CampaignPaused, Budget: 1000},
		},
		[]models.Driver{
			{Status: "Active", KmsToday: 45},
			{Status: "Active", KmsToday: 20},
			{Status: "Inactive", KmsToday: 90},
			{Status: "On Break"},
		},
	)
	assert.Equal(t, 1, st.ActiveCampaigns)
	assert.Equal(t, 1, st.ScheduledCampaigns)
	assert.Equal(t, int64(126000), st.TotalBudget)
	assert.Equal(t, 2, st.ActiveDrivers)
	assert.Equal(t, 2, st.InactiveDrivers)
	assert.True(t, decimal.RequireFromString("32.5").Equal(st.AvgKmsToday), st.AvgKmsToday.String())
}

func TestAdminWithoutActiveDrivers(t *testing.T) {
	st := Admin(nil, []models.Driver{{Status: "Inactive", KmsToday: 10}})
	assert.True(t, st.AvgKmsToday.IsZero())
	assert.Equal(t, 1, st.InactiveDrivers)
}

type sourceStub struct {
	campaigns []models.Campaign
	drivers   []models.Driver
}

func (s sourceStub) ListCampaigns(_ context.Context, advertiserID *int64) ([]models.Campaign, error) {
	var out []models.Campaign
	for _, c := range s.campaigns {
		if advertiserID == nil || c.AdvertiserID == *advertiserID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s sourceStub) ListDrivers(context.Context) ([]models.Driver, error) { return s.drivers, nil }

func (s sourceStub) GetDriver(_ context.Context, id int64) (models.Driver, error) {
	for _, d := range s.drivers {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Driver{}, models.ErrNoRecord
}

func (s sourceStub) GetDriverByUser(_ context.Context, userID int64) (models.Driver, error) {
	for _, d := range s.drivers {
		if d.UserID == userID {
			return d, nil
		}
	}
	return models.Driver{}, models.ErrNoRecord
}

func TestServiceLoadsRecords(t *testing.T) {
	ctx := context.Background()
	svc := NewService(sourceStub{
		campaigns: []models.Campaign{
			{AdvertiserID: 2, Status: models.CampaignActive, Views: 5},
			{AdvertiserID: 3, Status: models.CampaignActive, Views: 7},
		},
		drivers: []models.Driver{{ID: 1, UserID: 3, Status: "Active", KmsToday: 45, HoursActive: decimal.NewFromInt(3)}},
	})

	adv, err := svc.Advertiser(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), adv.TotalViews)

	admin, err := svc.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, admin.ActiveCampaigns)

	d, err := svc.Driver(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 45, d.KmsToday)

	d, err = svc.DriverForUser(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.DriverID)

	_, err = svc.Driver(ctx, 9)
	assert.ErrorIs(t, err, models.ErrNoRecord)
}
