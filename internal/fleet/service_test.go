package fleet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"flowAdsBack/internal/geo"
	"flowAdsBack/internal/models"
)

type trackerStub struct {
	updates map[int64]string
	err     error
}

func (t *trackerStub) UpdateDriver(_ context.Context, id int64, _, _ float64, status string) error {
	if t.updates == nil {
		t.updates = map[int64]string{}
	}
	t.updates[id] = status
	return t.err
}

func (t *trackerStub) Nearby(_ context.Context, _, _, _ float64, _ int) ([]geo.NearbyDriver, error) {
	out := make([]geo.NearbyDriver, 0, len(t.updates))
	for id := range t.updates {
		out = append(out, geo.NearbyDriver{ID: id})
	}
	return out, nil
}

type ledgerStub struct {
	payments []models.Payment
}

func (l *ledgerStub) AddPayment(_ context.Context, p models.Payment) (models.Payment, error) {
	l.payments = append(l.payments, p)
	return p, nil
}

func TestRegisterUserHashesPassword(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewFixture(), nil, nil)

	u, err := svc.RegisterUser(ctx, models.User{Name: "A", Email: " A@Example.com ", Password: "secret", Role: models.RoleAdvertiser})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)
	assert.NotEqual(t, "secret", u.Password)

	got, err := svc.Authenticate(ctx, "a@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.RegisterUser(ctx, models.User{Email: "a@example.com", Password: "x", Role: models.RoleDriver})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
	_, err = svc.RegisterUser(ctx, models.User{Email: "b@example.com", Password: "x", Role: "owner"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestDriverDefaultsAndTracking(t *testing.T) {
	ctx := context.Background()
	tracker := &trackerStub{}
	svc := NewService(NewFixture(), tracker, nil)

	u, err := svc.RegisterUser(ctx, models.User{Name: "D", Email: "d@example.com", Password: "p", Role: models.RoleDriver, Phone: "9000000000"})
	require.NoError(t, err)

	d, err := svc.RegisterDriver(ctx, models.Driver{UserID: u.ID, VehicleModel: "Swift"})
	require.NoError(t, err)
	assert.Equal(t, DefaultDriverStatus, d.Status)
	assert.Equal(t, DefaultDriverArea, d.Area)
	assert.Equal(t, DefaultDriverLat, d.Lat)
	assert.Equal(t, DefaultDriverLon, d.Lon)
	assert.Equal(t, "D", d.Name)
	assert.Equal(t, DefaultDriverStatus, tracker.updates[d.ID])

	moved, err := svc.MoveDriver(ctx, d.ID, models.DriverLocation{Area: "Palasia", Lat: 22.72, Lon: 75.88})
	require.NoError(t, err)
	assert.Equal(t, "Palasia", moved.Area)

	_, err = svc.MoveDriver(ctx, 999, models.DriverLocation{Area: "x"})
	assert.ErrorIs(t, err, models.ErrNoRecord)

	_, err = svc.RegisterDriver(ctx, models.Driver{UserID: 999})
	assert.ErrorIs(t, err, models.ErrNoRecord)

	near, err := svc.NearbyDrivers(ctx, 75.88, 22.72, 1000, 10)
	require.NoError(t, err)
	assert.Len(t, near, 1)
}

func TestTrackerFailureDoesNotFailRegistration(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewFixture(), &trackerStub{err: errors.New("redis down")}, nil)
	u, err := svc.RegisterUser(ctx, models.User{Email: "d@example.com", Password: "p", Role: models.RoleDriver})
	require.NoError(t, err)
	_, err = svc.RegisterDriver(ctx, models.Driver{UserID: u.ID})
	assert.NoError(t, err)
}

func TestNearbyWithoutTracker(t *testing.T) {
	svc := NewService(NewFixture(), nil, nil)
	_, err := svc.NearbyDrivers(context.Background(), 75.8, 22.7, 100, 5)
	assert.ErrorIs(t, err, ErrGeoDisabled)
}

func TestCampaignLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewFixture(), nil, nil)
	adv, err := svc.RegisterUser(ctx, models.User{Name: "Adv", Email: "adv@example.com", Password: "p", Role: models.RoleAdvertiser})
	require.NoError(t, err)

	c, err := svc.CreateCampaign(ctx, models.Campaign{Name: "Launch", AdvertiserID: adv.ID, Budget: 1000, Regions: []string{"MG Road"}})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignDraft, c.Status)
	assert.Equal(t, DefaultAdType, c.AdType)
	assert.Equal(t, "Adv", c.Advertiser)

	_, err = svc.CreateCampaign(ctx, models.Campaign{Name: "Orphan", AdvertiserID: 42})
	assert.ErrorIs(t, err, models.ErrNoRecord)

	c, err = svc.SetCampaignStatus(ctx, c.ID, models.CampaignActive)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignActive, c.Status)

	_, err = svc.SetCampaignStatus(ctx, c.ID, "Archived")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	before, after, err := svc.AddCampaignMetrics(ctx, c.ID, models.CampaignMetrics{Views: 10, Impressions: 20, Spent: 30})
	require.NoError(t, err)
	assert.Zero(t, before.Views)
	assert.Equal(t, int64(10), after.Views)

	_, after, err = svc.AddCampaignMetrics(ctx, c.ID, models.CampaignMetrics{Views: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(15), after.Views)
	assert.Equal(t, int64(20), after.Impressions)
	assert.Equal(t, int64(30), after.Spent)

	_, _, err = svc.AddCampaignMetrics(ctx, c.ID, models.CampaignMetrics{Views: -1})
	assert.Error(t, err)

	mine, err := svc.ListCampaigns(ctx, &adv.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	other := adv.ID + 100
	none, err := svc.ListCampaigns(ctx, &other)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSeedLoadsDemoDataOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewFixture()
	tracker := &trackerStub{}
	svc := NewService(repo, tracker, nil)
	ledger := &ledgerStub{}

	res, seeded, err := Seed(ctx, svc, ledger, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	require.True(t, seeded)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	admin, err := svc.Authenticate(ctx, "demo_admin@flowadscab.com", DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, res.AdminID, admin.ID)

	drivers, err := svc.ListDrivers(ctx)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, "Active", drivers[0].Status)
	assert.Equal(t, "Active", tracker.updates[drivers[0].ID])

	campaigns, err := svc.ListCampaigns(ctx, nil)
	require.NoError(t, err)
	require.Len(t, campaigns, 3)
	for _, c := range campaigns {
		assert.GreaterOrEqual(t, len(c.Regions), 3)
		assert.LessOrEqual(t, len(c.Regions), 4)
		seen := map[string]bool{}
		for _, r := range c.Regions {
			assert.False(t, seen[r], "duplicate region %s", r)
			seen[r] = true
		}
		require.NotNil(t, c.StartDate)
		require.NotNil(t, c.EndDate)
		assert.True(t, c.EndDate.After(*c.StartDate))
	}

	locs, err := svc.HighViewershipLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locs, 6)
	assert.Equal(t, "Palasia Square", locs[0].Name)
	for i := 1; i < len(locs); i++ {
		assert.GreaterOrEqual(t, locs[i-1].Views, locs[i].Views)
	}

	require.Len(t, ledger.payments, 4)
	for _, p := range ledger.payments {
		assert.Equal(t, models.PaymentCompleted, p.Status)
	}

	_, seeded, err = Seed(ctx, svc, ledger, nil)
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Len(t, ledger.payments, 4)
}
