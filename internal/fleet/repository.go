// Package fleet stores the marketplace records around the payment ledger:
// users, drivers, campaigns and high-viewership locations.
package fleet

import (
	"context"

	"flowAdsBack/internal/models"
)

// Repository is the relational record store for fleet data.
type Repository interface {
	CountUsers(ctx context.Context) (int, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)

	ListDrivers(ctx context.Context) ([]models.Driver, error)
	GetDriver(ctx context.Context, id int64) (models.Driver, error)
	GetDriverByUser(ctx context.Context, userID int64) (models.Driver, error)
	CreateDriver(ctx context.Context, d models.Driver) (models.Driver, error)
	UpdateDriverLocation(ctx context.Context, id int64, loc models.DriverLocation) error

	ListCampaigns(ctx context.Context, advertiserID *int64) ([]models.Campaign, error)
	GetCampaign(ctx context.Context, id int64) (models.Campaign, error)
	CreateCampaign(ctx context.Context, c models.Campaign) (models.Campaign, error)
	UpdateCampaignStatus(ctx context.Context, id int64, status string) error
	UpdateCampaignMetrics(ctx context.Context, id int64, m models.CampaignMetrics) error

	HighViewershipLocations(ctx context.Context) ([]models.Location, error)
	CreateLocation(ctx context.Context, l models.Location) (models.Location, error)
}

// Driver defaults applied when a field is left empty.
const (
	DefaultDriverStatus = "Inactive"
	DefaultDriverArea   = "Indore"
	DefaultDriverLat    = 22.7196
	DefaultDriverLon    = 75.8577
	DefaultAdType       = "image"
)

func applyDriverDefaults(d *models.Driver) {
	if d.Status == "" {
		d.Status = DefaultDriverStatus
	}
	if d.Area == "" {
		d.Area = DefaultDriverArea
	}
	if d.Lat == 0 && d.Lon == 0 {
		d.Lat = DefaultDriverLat
		d.Lon = DefaultDriverLon
	}
}

func applyCampaignDefaults(c *models.Campaign) {
	if c.Status == "" {
		c.Status = models.CampaignDraft
	}
	if c.AdType == "" {
		c.AdType = DefaultAdType
	}
	if c.Regions == nil {
		c.Regions = []string{}
	}
}
