// Package dashboard computes the headline numbers of the role dashboards.
package dashboard

import (
	"context"

	"github.com/shopspring/decimal"

	"flowAdsBack/internal/models"
)

// Source is the part of the fleet repository the dashboards read.
type Source interface {
	ListCampaigns(ctx context.Context, advertiserID *int64) ([]models.Campaign, error)
	ListDrivers(ctx context.Context) ([]models.Driver, error)
	GetDriver(ctx context.Context, id int64) (models.Driver, error)
	GetDriverByUser(ctx context.Context, userID int64) (models.Driver, error)
}

type AdvertiserStats struct {
	ActiveCampaigns  int               `json:"active_campaigns"`
	TotalImpressions int64             `json:"total_impressions"`
	TotalViews       int64             `json:"total_views"`
	TotalSpent       int64             `json:"total_spent"`
	Campaigns        []models.Campaign `json:"campaigns"`
}

type AdminStats struct {
	ActiveCampaigns    int             `json:"active_campaigns"`
	ScheduledCampaigns int             `json:"scheduled_campaigns"`
	TotalBudget        int64           `json:"total_budget"`
	ActiveDrivers      int             `json:"active_drivers"`
	InactiveDrivers    int             `json:"inactive_drivers"`
	AvgKmsToday        decimal.Decimal `json:"avg_kms_today"`
}

type DriverStats struct {
	DriverID    int64           `json:"driver_id"`
	Status      string          `json:"status"`
	KmsToday    int             `json:"kms_today"`
	HoursActive decimal.Decimal `json:"hours_active"`
	Area        string          `json:"current_location_area"`
}

const driverActive = "Active"

// Advertiser summarises one advertiser's campaigns.
func Advertiser(campaigns []models.Campaign) AdvertiserStats {
	st := AdvertiserStats{Campaigns: campaigns}
	if st.Campaigns == nil {
		st.Campaigns = []models.Campaign{}
	}
	for _, c := range campaigns {
		if c.Status == models.CampaignActive {
			st.ActiveCampaigns++
		}
		st.TotalImpressions += c.Impressions
		st.TotalViews += c.Views
		st.TotalSpent += c.Spent
	}
	return st
}

// Admin summarises every campaign and driver. Drivers whose status is not
// Active count as inactive.
func Admin(campaigns []models.Campaign, drivers []models.Driver) AdminStats {
	var st AdminStats
	for _, c := range campaigns {
		switch c.Status {
		case models.CampaignActive:
			st.ActiveCampaigns++
		case models.CampaignScheduled:
			st.ScheduledCampaigns++
		}
		st.TotalBudget += c.Budget
	}
	var kms int64
	for _, d := range drivers {
		if d.Status == driverActive {
			st.ActiveDrivers++
			kms += int64(d.KmsToday)
		} else {
			st.InactiveDrivers++
		}
	}
	n := st.ActiveDrivers
	if n == 0 {
		n = 1
	}
	st.AvgKmsToday = decimal.NewFromInt(kms).Div(decimal.NewFromInt(int64(n))).Round(1)
	return st
}

// Driver reports a single driver's day.
func Driver(d models.Driver) DriverStats {
	return DriverStats{
		DriverID:    d.ID,
		Status:      d.Status,
		KmsToday:    d.KmsToday,
		HoursActive: d.HoursActive,
		Area:        d.Area,
	}
}

// Service loads the records behind each dashboard.
type Service struct {
	src Source
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

func (s *Service) Advertiser(ctx context.Context, advertiserID int64) (AdvertiserStats, error) {
	campaigns, err := s.src.ListCampaigns(ctx, &advertiserID)
	if err != nil {
		return AdvertiserStats{}, err
	}
	return Advertiser(campaigns), nil
}

func (s *Service) Admin(ctx context.Context) (AdminStats, error) {
	campaigns, err := s.src.ListCampaigns(ctx, nil)
	if err != nil {
		return AdminStats{}, err
	}
	drivers, err := s.src.ListDrivers(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	return Admin(campaigns, drivers), nil
}

func (s *Service) Driver(ctx context.Context, driverID int64) (DriverStats, error) {
	d, err := s.src.GetDriver(ctx, driverID)
	if err != nil {
		return DriverStats{}, err
	}
	return Driver(d), nil
}

// DriverForUser reports the day of the driver owned by a user account.
func (s *Service) DriverForUser(ctx context.Context, userID int64) (DriverStats, error) {
	d, err := s.src.GetDriverByUser(ctx, userID)
	if err != nil {
		return DriverStats{}, err
	}
	return Driver(d), nil
}
