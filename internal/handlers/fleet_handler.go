package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"flowAdsBack/internal/fleet"
	"flowAdsBack/internal/models"
	"flowAdsBack/internal/notify"
	"flowAdsBack/internal/timeutil"
)

type FleetHandler struct {
	Service  *fleet.Service
	Notifier *Notifier
}

func (h *FleetHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin advertiser driver"`
	Phone    string `json:"phone"`
}

func (h *FleetHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeValid(w, r, &req) {
		return
	}
	u, err := h.Service.RegisterUser(r.Context(), models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *FleetHandler) GetDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.Service.ListDrivers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drivers)
}

type createDriverRequest struct {
	UserID        int64           `json:"user_id" validate:"required,gt=0"`
	VehicleModel  string          `json:"vehicle_model"`
	VehicleNumber string          `json:"vehicle_number"`
	VehicleColor  string          `json:"vehicle_color"`
	LicenseNumber string          `json:"license_number"`
	Status        string          `json:"status"`
	Area          string          `json:"current_location_area"`
	Lat           float64         `json:"current_location_lat" validate:"omitempty,latitude"`
	Lon           float64         `json:"current_location_lon" validate:"omitempty,longitude"`
	KmsToday      int             `json:"kms_today" validate:"gte=0"`
	HoursActive   decimal.Decimal `json:"hours_active"`
}

func (h *FleetHandler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var req createDriverRequest
	if !decodeValid(w, r, &req) {
		return
	}
	d, err := h.Service.RegisterDriver(r.Context(), models.Driver{
		UserID:        req.UserID,
		VehicleModel:  req.VehicleModel,
		VehicleNumber: req.VehicleNumber,
		VehicleColor:  req.VehicleColor,
		LicenseNumber: req.LicenseNumber,
		Status:        req.Status,
		Area:          req.Area,
		Lat:           req.Lat,
		Lon:           req.Lon,
		KmsToday:      req.KmsToday,
		HoursActive:   req.HoursActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

type driverMoved struct {
	Kind   string        `json:"kind"`
	Driver models.Driver `json:"driver"`
}

func (h *FleetHandler) UpdateDriverLocation(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var loc models.DriverLocation
	if !decodeValid(w, r, &loc) {
		return
	}
	d, err := h.Service.MoveDriver(r.Context(), id, loc)
	if err != nil {
		writeError(w, err)
		return
	}
	h.Notifier.PushRole(models.RoleAdmin, driverMoved{Kind: "driver_location", Driver: d})
	writeJSON(w, http.StatusOK, d)
}

// NearbyDrivers lists active drivers around lat/lon. radius is in metres.
func (h *FleetHandler) NearbyDrivers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(q.Get("lon"), 64)
	if err1 != nil || err2 != nil {
		http.Error(w, "lat and lon are required", http.StatusBadRequest)
		return
	}
	radius := 2000.0
	if raw := q.Get("radius"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			http.Error(w, "Invalid radius", http.StatusBadRequest)
			return
		}
		radius = v
	}
	near, err := h.Service.NearbyDrivers(r.Context(), lon, lat, radius, intQuery(r, "limit", 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, near)
}

func (h *FleetHandler) GetCampaigns(w http.ResponseWriter, r *http.Request) {
	var advertiserID *int64
	if raw := r.URL.Query().Get("advertiser_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "Invalid advertiser ID", http.StatusBadRequest)
			return
		}
		advertiserID = &id
	}
	campaigns, err := h.Service.ListCampaigns(r.Context(), advertiserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

type createCampaignRequest struct {
	Name         string   `json:"name" validate:"required"`
	AdvertiserID int64    `json:"advertiser_id" validate:"required,gt=0"`
	Status       string   `json:"status" validate:"omitempty,oneof=Draft Active Paused Scheduled Completed"`
	AdType       string   `json:"ad_type"`
	Budget       int64    `json:"budget" validate:"gte=0"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Regions      []string `json:"regions"`
}

func optionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := timeutil.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *FleetHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if !decodeValid(w, r, &req) {
		return
	}
	start, err := optionalDate(req.StartDate)
	if err != nil {
		http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	end, err := optionalDate(req.EndDate)
	if err != nil {
		http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if start != nil && end != nil && end.Before(*start) {
		http.Error(w, "end_date is before start_date", http.StatusBadRequest)
		return
	}
	c, err := h.Service.CreateCampaign(r.Context(), models.Campaign{
		Name:         req.Name,
		AdvertiserID: req.AdvertiserID,
		Status:       req.Status,
		AdType:       req.AdType,
		Budget:       req.Budget,
		StartDate:    start,
		EndDate:      end,
		Regions:      req.Regions,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

type campaignStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateCampaignStatus stores the status and texts the advertiser.
func (h *FleetHandler) UpdateCampaignStatus(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req campaignStatusRequest
	if !decodeValid(w, r, &req) {
		return
	}
	c, err := h.Service.SetCampaignStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	start := ""
	if c.StartDate != nil {
		start = timeutil.FormatDate(*c.StartDate)
	}
	h.Notifier.NotifyUser(r.Context(), "campaign_status", c.AdvertiserID, func(models.User) string {
		return notify.CampaignStatus(c.Name, c.Status, start)
	})
	writeJSON(w, http.StatusOK, c)
}

// UpdateCampaignMetrics adds counters and texts the advertiser when the
// views cross a milestone.
func (h *FleetHandler) UpdateCampaignMetrics(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var m models.CampaignMetrics
	if !decodeValid(w, r, &m) {
		return
	}
	before, after, err := h.Service.AddCampaignMetrics(r.Context(), id, m)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, ok := notify.CrossedMilestone(before.Views, after.Views); ok {
		h.Notifier.NotifyUser(r.Context(), "viewership_milestone", after.AdvertiserID, func(models.User) string {
			return notify.ViewershipMilestone(after.Name, after.Views, 0)
		})
	}
	writeJSON(w, http.StatusOK, after)
}

func (h *FleetHandler) GetLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.Service.HighViewershipLocations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, locs)
}
