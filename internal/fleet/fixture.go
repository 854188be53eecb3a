package fleet

import (
	"context"
	"sort"
	"strings"
	"sync"

	"flowAdsBack/internal/models"
	"flowAdsBack/internal/timeutil"
)

// Fixture is the in-memory fleet repository used in demo mode and tests.
type Fixture struct {
	mu        sync.RWMutex
	users     []models.User
	drivers   []models.Driver
	campaigns []models.Campaign
	locations []models.Location
}

// NewFixture returns an empty in-memory repository. Use Seed to load the
// demo data.
func NewFixture() *Fixture {
	return &Fixture{}
}

func (f *Fixture) CountUsers(_ context.Context) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.users), nil
}

func (f *Fixture) ListUsers(_ context.Context) ([]models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *Fixture) GetUser(_ context.Context, id int64) (models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, models.ErrNoRecord
}

func (f *Fixture) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, models.ErrNoRecord
}

func (f *Fixture) CreateUser(_ context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.User{}, models.ErrDuplicateEmail
		}
	}
	u.ID = int64(len(f.users) + 1)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = timeutil.Now()
	}
	f.users = append(f.users, u)
	return u, nil
}

func (f *Fixture) userByID(id int64) (models.User, bool) {
	for _, u := range f.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (f *Fixture) withOwner(d models.Driver) models.Driver {
	if u, ok := f.userByID(d.UserID); ok {
		d.Name, d.Email, d.Phone = u.Name, u.Email, u.Phone
	}
	return d
}

func (f *Fixture) ListDrivers(_ context.Context) ([]models.Driver, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.Driver, 0, len(f.drivers))
	for _, d := range f.drivers {
		out = append(out, f.withOwner(d))
	}
	return out, nil
}

func (f *Fixture) GetDriver(_ context.Context, id int64) (models.Driver, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, d := range f.drivers {
		if d.ID == id {
			return f.withOwner(d), nil
		}
	}
	return models.Driver{}, models.ErrNoRecord
}

func (f *Fixture) GetDriverByUser(_ context.Context, userID int64) (models.Driver, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, d := range f.drivers {
		if d.UserID == userID {
			return f.withOwner(d), nil
		}
	}
	return models.Driver{}, models.ErrNoRecord
}

func (f *Fixture) CreateDriver(_ context.Context, d models.Driver) (models.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.userByID(d.UserID); !ok {
		return models.Driver{}, models.ErrNoRecord
	}
	applyDriverDefaults(&d)
	d.ID = int64(len(f.drivers) + 1)
	f.drivers = append(f.drivers, d)
	return f.withOwner(d), nil
}

func (f *Fixture) UpdateDriverLocation(_ context.Context, id int64, loc models.DriverLocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.drivers {
		if f.drivers[i].ID == id {
			f.drivers[i].Area = loc.Area
			f.drivers[i].Lat = loc.Lat
			f.drivers[i].Lon = loc.Lon
			return nil
		}
	}
	return models.ErrNoRecord
}

func (f *Fixture) withAdvertiser(c models.Campaign) models.Campaign {
	if u, ok := f.userByID(c.AdvertiserID); ok {
		c.Advertiser = u.Name
	}
	regions := make([]string, len(c.Regions))
	copy(regions, c.Regions)
	c.Regions = regions
	return c
}

func (f *Fixture) ListCampaigns(_ context.Context, advertiserID *int64) ([]models.Campaign, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.Campaign, 0, len(f.campaigns))
	for _, c := range f.campaigns {
		if advertiserID != nil && c.AdvertiserID != *advertiserID {
			continue
		}
		out = append(out, f.withAdvertiser(c))
	}
	return out, nil
}

func (f *Fixture) GetCampaign(_ context.Context, id int64) (models.Campaign, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, c := range f.campaigns {
		if c.ID == id {
			return f.withAdvertiser(c), nil
		}
	}
	return models.Campaign{}, models.ErrNoRecord
}

func (f *Fixture) CreateCampaign(_ context.Context, c models.Campaign) (models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.userByID(c.AdvertiserID); !ok {
		return models.Campaign{}, models.ErrNoRecord
	}
	applyCampaignDefaults(&c)
	c.ID = int64(len(f.campaigns) + 1)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = timeutil.Now()
	}
	f.campaigns = append(f.campaigns, c)
	return f.withAdvertiser(c), nil
}

func (f *Fixture) UpdateCampaignStatus(_ context.Context, id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.campaigns {
		if f.campaigns[i].ID == id {
			f.campaigns[i].Status = status
			return nil
		}
	}
	return models.ErrNoRecord
}

func (f *Fixture) UpdateCampaignMetrics(_ context.Context, id int64, m models.CampaignMetrics) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.campaigns {
		if f.campaigns[i].ID == id {
			f.campaigns[i].Views += m.Views
			f.campaigns[i].Impressions += m.Impressions
			f.campaigns[i].Spent += m.Spent
			return nil
		}
	}
	return models.ErrNoRecord
}

func (f *Fixture) HighViewershipLocations(_ context.Context) ([]models.Location, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.Location, len(f.locations))
	copy(out, f.locations)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	return out, nil
}

func (f *Fixture) CreateLocation(_ context.Context, l models.Location) (models.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l.ID = int64(len(f.locations) + 1)
	f.locations = append(f.locations, l)
	return l, nil
}
