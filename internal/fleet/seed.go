package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/rand"

	"flowAdsBack/internal/models"
	"flowAdsBack/internal/timeutil"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password"

// DemoRegions are the Indore areas campaigns are sampled from.
var DemoRegions = []string{"Vijay Nagar", "Palasia", "South Tukoganj", "New Palasia", "MG Road", "AB Road"}

// PaymentRecorder records the demo payments in the ledger.
type PaymentRecorder interface {
	AddPayment(ctx context.Context, p models.Payment) (models.Payment, error)
}

// SeedResult reports the ids created by Seed.
type SeedResult struct {
	AdminID      int64
	AdvertiserID int64
	DriverUserID int64
	DriverID     int64
	CampaignIDs  []int64
}

// Seed loads the demo data set when the users table is empty. It reports
// false when data was already present.
func Seed(ctx context.Context, svc *Service, ledger PaymentRecorder, rng *rand.Rand) (SeedResult, bool, error) {
	var res SeedResult
	n, err := svc.CountUsers(ctx)
	if err != nil {
		return res, false, err
	}
	if n > 0 {
		return res, false, nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	users := []models.User{
		{Name: "Demo Admin", Email: "demo_admin@flowadscab.com", Password: DemoPassword, Role: models.RoleAdmin, Phone: "9876543210"},
		{Name: "Demo Advertiser", Email: "demo_advertiser@flowadscab.com", Password: DemoPassword, Role: models.RoleAdvertiser, Phone: "9876543211"},
		{Name: "Demo Driver", Email: "demo_driver@flowadscab.com", Password: DemoPassword, Role: models.RoleDriver, Phone: "9876543212"},
	}
	ids := make([]int64, len(users))
	for i, u := range users {
		created, err := svc.RegisterUser(ctx, u)
		if err != nil {
			return res, false, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		ids[i] = created.ID
	}
	res.AdminID, res.AdvertiserID, res.DriverUserID = ids[0], ids[1], ids[2]

	driver, err := svc.RegisterDriver(ctx, models.Driver{
		UserID:        res.DriverUserID,
		VehicleModel:  "Swift Dzire",
		VehicleNumber: "MP-09-AB-1234",
		VehicleColor:  "White",
		LicenseNumber: "DL9876543210",
		Status:        "Active",
		Area:          "Vijay Nagar",
		Lat:           22.7533,
		Lon:           75.8937,
		KmsToday:      45,
		HoursActive:   decimal.NewFromInt(3),
	})
	if err != nil {
		return res, false, fmt.Errorf("seed driver: %w", err)
	}
	res.DriverID = driver.ID

	today := timeutil.DateOf(timeutil.Now())
	day := func(offset int) *time.Time {
		t := today.AddDate(0, 0, offset)
		return &t
	}
	campaigns := []models.Campaign{
		{Name: "Summer Sale Promotion", Status: models.CampaignActive, AdType: "image", Budget: 50000, Spent: 12500, Views: 8750, Impressions: 15000, StartDate: day(-5), EndDate: day(25)},
		{Name: "New Product Launch", Status: models.CampaignScheduled, AdType: "video", Budget: 75000, StartDate: day(3), EndDate: day(33)},
		{Name: "Brand Awareness Campaign", Status: models.CampaignActive, AdType: "image", Budget: 40000, Spent: 18000, Views: 12000, Impressions: 20000, StartDate: day(-10), EndDate: day(20)},
	}
	for _, c := range campaigns {
		c.AdvertiserID = res.AdvertiserID
		c.Regions = sampleRegions(rng)
		created, err := svc.CreateCampaign(ctx, c)
		if err != nil {
			return res, false, fmt.Errorf("seed campaign %s: %w", c.Name, err)
		}
		res.CampaignIDs = append(res.CampaignIDs, created.ID)
	}

	locations := []models.Location{
		{Name: "Palasia Square", Lat: 22.7244, Lon: 75.8839, Views: 45000, Importance: 5},
		{Name: "Vijay Nagar Square", Lat: 22.7533, Lon: 75.8937, Views: 38000, Importance: 4},
		{Name: "Malwa Mall", Lat: 22.7229, Lon: 75.8874, Views: 32000, Importance: 4},
		{Name: "C21 Mall", Lat: 22.7607, Lon: 75.8940, Views: 29000, Importance: 3},
		{Name: "MG Road", Lat: 22.7183, Lon: 75.8720, Views: 26000, Importance: 3},
		{Name: "Treasure Island Mall", Lat: 22.7248, Lon: 75.8876, Views: 35000, Importance: 4},
	}
	for _, l := range locations {
		if _, err := svc.CreateLocation(ctx, l); err != nil {
			return res, false, fmt.Errorf("seed location %s: %w", l.Name, err)
		}
	}

	if ledger != nil {
		driverID := fmt.Sprint(res.DriverUserID)
		advertiserID := fmt.Sprint(res.AdvertiserID)
		payments := []models.Payment{
			{UserID: driverID, Type: models.DriverPayment, Amount: decimal.NewFromInt(2500), Status: models.PaymentCompleted, Description: "Weekly payment for March 22"},
			{UserID: driverID, Type: models.DriverPayment, Amount: decimal.NewFromInt(2300), Status: models.PaymentCompleted, Description: "Weekly payment for March 15"},
			{UserID: advertiserID, Type: models.AdvertiserPayment, Amount: decimal.NewFromInt(12500), Status: models.PaymentCompleted, Description: "Summer Sale Promotion - Initial payment"},
			{UserID: advertiserID, Type: models.AdvertiserPayment, Amount: decimal.NewFromInt(18000), Status: models.PaymentCompleted, Description: "Brand Awareness Campaign - Initial payment"},
		}
		for _, p := range payments {
			if _, err := ledger.AddPayment(ctx, p); err != nil {
				return res, false, fmt.Errorf("seed payment: %w", err)
			}
		}
	}
	return res, true, nil
}

// sampleRegions picks three or four distinct demo regions.
func sampleRegions(rng *rand.Rand) []string {
	n := 3 + rng.Intn(2)
	perm := rng.Perm(len(DemoRegions))
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, DemoRegions[i])
	}
	return out
}
