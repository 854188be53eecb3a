package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"flowAdsBack/internal/geo"
	"flowAdsBack/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("fleet: invalid email or password")
	ErrInvalidRole        = errors.New("fleet: unknown role")
	ErrGeoDisabled        = errors.New("fleet: driver geo index is not configured")
)

// Logger provides minimal logging required by the fleet service.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// DriverTracker mirrors driver positions for proximity lookups.
type DriverTracker interface {
	UpdateDriver(ctx context.Context, driverID int64, lon, lat float64, status string) error
	Nearby(ctx context.Context, lon, lat, radiusMeters float64, limit int) ([]geo.NearbyDriver, error)
}

// Service adds password hashing and geo mirroring on top of a Repository.
type Service struct {
	Repository
	tracker DriverTracker
	log     Logger
}

// NewService wraps repo. tracker may be nil when Redis is not configured.
func NewService(repo Repository, tracker DriverTracker, log Logger) *Service {
	return &Service{Repository: repo, tracker: tracker, log: log}
}

// ValidRole reports whether role is one of the dashboard roles.
func ValidRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleAdvertiser, models.RoleDriver:
		return true
	}
	return false
}

// ValidCampaignStatus reports whether status is a known campaign status.
func ValidCampaignStatus(status string) bool {
	switch status {
	case models.CampaignDraft, models.CampaignActive, models.CampaignPaused, models.CampaignScheduled, models.CampaignCompleted:
		return true
	}
	return false
}

// RegisterUser hashes the password and stores the user.
func (s *Service) RegisterUser(ctx context.Context, u models.User) (models.User, error) {
	if !ValidRole(u.Role) {
		return models.User{}, fmt.Errorf("%w: %q", ErrInvalidRole, u.Role)
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	u.Password = string(hash)
	return s.Repository.CreateUser(ctx, u)
}

// Authenticate checks an email and password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.Repository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, models.ErrNoRecord) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// RegisterDriver stores a driver and indexes its starting position.
func (s *Service) RegisterDriver(ctx context.Context, d models.Driver) (models.Driver, error) {
	created, err := s.Repository.CreateDriver(ctx, d)
	if err != nil {
		return models.Driver{}, err
	}
	s.track(ctx, created)
	return created, nil
}

// MoveDriver updates a driver's position in the store and the geo index.
func (s *Service) MoveDriver(ctx context.Context, id int64, loc models.DriverLocation) (models.Driver, error) {
	if err := s.Repository.UpdateDriverLocation(ctx, id, loc); err != nil {
		return models.Driver{}, err
	}
	d, err := s.Repository.GetDriver(ctx, id)
	if err != nil {
		return models.Driver{}, err
	}
	s.track(ctx, d)
	return d, nil
}

func (s *Service) track(ctx context.Context, d models.Driver) {
	if s.tracker == nil {
		return
	}
	if err := s.tracker.UpdateDriver(ctx, d.ID, d.Lon, d.Lat, d.Status); err != nil && s.log != nil {
		s.log.Errorf("geo index update for driver %d failed: %v", d.ID, err)
	}
}

// IndexDrivers loads every stored driver into the geo index.
func (s *Service) IndexDrivers(ctx context.Context) (int, error) {
	if s.tracker == nil {
		return 0, nil
	}
	drivers, err := s.Repository.ListDrivers(ctx)
	if err != nil {
		return 0, err
	}
	for _, d := range drivers {
		s.track(ctx, d)
	}
	return len(drivers), nil
}

// NearbyDrivers returns active drivers around a point.
func (s *Service) NearbyDrivers(ctx context.Context, lon, lat, radiusMeters float64, limit int) ([]geo.NearbyDriver, error) {
	if s.tracker == nil {
		return nil, ErrGeoDisabled
	}
	return s.tracker.Nearby(ctx, lon, lat, radiusMeters, limit)
}

// SetCampaignStatus validates and stores a campaign status change.
func (s *Service) SetCampaignStatus(ctx context.Context, id int64, status string) (models.Campaign, error) {
	if !ValidCampaignStatus(status) {
		return models.Campaign{}, fmt.Errorf("%w: campaign status %q", models.ErrInvalidStatus, status)
	}
	if err := s.Repository.UpdateCampaignStatus(ctx, id, status); err != nil {
		return models.Campaign{}, err
	}
	return s.Repository.GetCampaign(ctx, id)
}

// AddCampaignMetrics applies additive counters and returns the campaign
// before and after the update.
func (s *Service) AddCampaignMetrics(ctx context.Context, id int64, m models.CampaignMetrics) (before, after models.Campaign, err error) {
	if m.Views < 0 || m.Impressions < 0 || m.Spent < 0 {
		return models.Campaign{}, models.Campaign{}, fmt.Errorf("campaign metrics must not be negative")
	}
	before, err = s.Repository.GetCampaign(ctx, id)
	if err != nil {
		return models.Campaign{}, models.Campaign{}, err
	}
	if err := s.Repository.UpdateCampaignMetrics(ctx, id, m); err != nil {
		return models.Campaign{}, models.Campaign{}, err
	}
	after, err = s.Repository.GetCampaign(ctx, id)
	return before, after, err
}
