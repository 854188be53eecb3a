package handlers

import (
	"net/http"

	"flowAdsBack/internal/dashboard"
)

type DashboardHandler struct {
	Service *dashboard.Service
}

func (h *DashboardHandler) Advertiser(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	st, err := h.Service.Advertiser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.Admin(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Driver answers for a driver id, or for the owning user id with ?by=user.
func (h *DashboardHandler) Driver(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var st dashboard.DriverStats
	if r.URL.Query().Get("by") == "user" {
		st, err = h.Service.DriverForUser(r.Context(), id)
	} else {
		st, err = h.Service.Driver(r.Context(), id)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
