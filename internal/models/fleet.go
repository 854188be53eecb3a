package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Driver is a taxi carrying an ad screen.
type Driver struct {
	ID                  int64           `json:"id"`
	UserID              int64           `json:"user_id"`
	Name                string          `json:"name"`
	Email               string          `json:"email,omitempty"`
	Phone               string          `json:"phone,omitempty"`
	VehicleModel        string          `json:"vehicle_model"`
	VehicleNumber       string          `json:"vehicle_number"`
	VehicleColor        string          `json:"vehicle_color"`
	LicenseNumber       string          `json:"license_number"`
	Status              string          `json:"status"`
	Area                string          `json:"current_location_area"`
	Lat                 float64         `json:"current_location_lat"`
	Lon                 float64         `json:"current_location_lon"`
	KmsToday            int             `json:"kms_today"`
	HoursActive         decimal.Decimal `json:"hours_active"`
	CurrentAdDisplaying *int64          `json:"current_ad_displaying,omitempty"`
}

// DriverLocation is a position update for a driver.
type DriverLocation struct {
	Area string  `json:"area" validate:"required"`
	Lat  float64 `json:"lat" validate:"latitude"`
	Lon  float64 `json:"lon" validate:"longitude"`
}

// Campaign statuses used by the dashboard.
const (
	CampaignDraft     = "Draft"
	CampaignActive    = "Active"
	CampaignPaused    = "Paused"
	CampaignScheduled = "Scheduled"
	CampaignCompleted = "Completed"
)

// Campaign is an advertiser's ad-display booking.
type Campaign struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	AdvertiserID int64      `json:"advertiser_id"`
	Advertiser   string     `json:"advertiser,omitempty"`
	Status       string     `json:"status"`
	AdType       string     `json:"ad_type"`
	Budget       int64      `json:"budget"`
	Spent        int64      `json:"spent"`
	Views        int64      `json:"views"`
	Impressions  int64      `json:"impressions"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Regions      []string   `json:"regions"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CampaignMetrics is an additive update of campaign counters.
type CampaignMetrics struct {
	Views       int64 `json:"views" validate:"gte=0"`
	Impressions int64 `json:"impressions" validate:"gte=0"`
	Spent       int64 `json:"spent" validate:"gte=0"`
}

// Location is a high-viewership spot.
type Location struct {
	ID         int64   `json:"id"`
	Name       string  `json:"location_name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Views      int64   `json:"views"`
	Importance int     `json:"importance"`
}
