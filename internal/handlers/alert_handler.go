package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"flowAdsBack/internal/notify"
)

type AlertHandler struct {
	Dispatcher *notify.Dispatcher
}

type smsRequest struct {
	Phone   string `json:"phone" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// SendSMS sends a free-form alert. A gateway failure answers 502 with the
// gateway result in the body.
func (h *AlertHandler) SendSMS(w http.ResponseWriter, r *http.Request) {
	var req smsRequest
	if !decodeValid(w, r, &req) {
		return
	}
	res, err := h.Dispatcher.Send(r.Context(), notify.NormalizePhone(req.Phone), req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if res.Status != notify.StatusSuccess {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, res)
}

func (h *AlertHandler) GetSent(w http.ResponseWriter, r *http.Request) {
	sent, err := h.Dispatcher.Sent(r.Context(), intQuery(r, "limit", 50))
	if err != nil {
		writeError(w, err)
		return
	}
	if sent == nil {
		sent = []notify.SentMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"gateway":  h.Dispatcher.Gateway(),
		"messages": sent,
	})
}

type pushRequest struct {
	Token string `json:"token" validate:"required"`
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

// SendPush forwards an alert to a driver app. sent is false when no push
// backend is configured.
func (h *AlertHandler) SendPush(w http.ResponseWriter, r *http.Request) {
	var req pushRequest
	if !decodeValid(w, r, &req) {
		return
	}
	sent, err := h.Dispatcher.Push(r.Context(), req.Token, req.Title, req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"sent": sent})
}

// previewRequest carries the union of every formatter's inputs.
type previewRequest struct {
	Name          string          `json:"name"`
	Campaign      string          `json:"campaign"`
	Views         int64           `json:"views"`
	Target        int64           `json:"target"`
	Area          string          `json:"area"`
	TargetType    string          `json:"target_type"`
	Amount        decimal.Decimal `json:"amount"`
	Period        string          `json:"period"`
	Document      string          `json:"document"`
	DaysRemaining int             `json:"days_remaining"`
	Purpose       string          `json:"purpose"`
	Status        string          `json:"status"`
	StartDate     string          `json:"start_date"`
}

// PreviewAlert renders an alert text without sending it.
func (h *AlertHandler) PreviewAlert(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	var msg string
	switch kind := getParam(r, "kind"); kind {
	case "viewership_milestone":
		msg = notify.ViewershipMilestone(req.Campaign, req.Views, req.Target)
	case "location_target":
		msg = notify.LocationTargetReached(req.Area, req.TargetType)
	case "driver_earnings":
		msg = notify.DriverEarnings(req.Name, req.Amount, req.Period)
	case "document_expiry":
		msg = notify.DocumentExpiry(req.Name, req.Document, req.DaysRemaining)
	case "payment_confirmation":
		msg = notify.PaymentConfirmation(req.Name, req.Amount, req.Purpose)
	case "campaign_status":
		msg = notify.CampaignStatus(req.Campaign, req.Status, req.StartDate)
	default:
		http.Error(w, "Unknown alert kind", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}
