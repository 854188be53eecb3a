package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"flowAdsBack/internal/models"
	"flowAdsBack/internal/notify"
	"flowAdsBack/internal/payments"
	"flowAdsBack/internal/timeutil"
)

// InvoiceSettler closes the invoice linked to a completed payment.
type InvoiceSettler interface {
	SettlePayment(ctx context.Context, payment models.Payment) (models.Invoice, bool, error)
}

type PaymentHandler struct {
	Service  *payments.Service
	Invoices InvoiceSettler
	Notifier *Notifier
}

type addPaymentRequest struct {
	UserID      string               `json:"user_id" validate:"required"`
	Type        models.PaymentType   `json:"payment_type" validate:"required,oneof=driver_payment advertiser_payment"`
	Amount      decimal.Decimal      `json:"amount"`
	Description string               `json:"description"`
	Status      models.PaymentStatus `json:"status" validate:"omitempty,oneof=pending completed failed"`
	Method      string               `json:"payment_method"`
	CampaignID  string               `json:"campaign_id"`
	InvoiceID   string               `json:"invoice_id"`
}

func (h *PaymentHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var req addPaymentRequest
	if !decodeValid(w, r, &req) {
		return
	}
	if req.Status == "" {
		req.Status = models.PaymentPending
	}
	p, err := h.Service.AddPayment(r.Context(), models.Payment{
		UserID:      req.UserID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Status:      req.Status,
		Method:      req.Method,
		CampaignID:  req.CampaignID,
		InvoiceID:   req.InvoiceID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// paymentFilter reads user_id, payment_type, status, date_from and date_to
// from the query string. Dates use YYYY-MM-DD.
func paymentFilter(r *http.Request) (models.PaymentFilter, error) {
	q := r.URL.Query()
	f := models.PaymentFilter{
		UserID: q.Get("user_id"),
		Type:   models.PaymentType(q.Get("payment_type")),
		Status: models.PaymentStatus(q.Get("status")),
	}
	if f.Type != "" && !f.Type.Valid() {
		return f, models.ErrInvalidType
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, models.ErrInvalidStatus
	}
	for name, dst := range map[string]**time.Time{"date_from": &f.DateFrom, "date_to": &f.DateTo} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		t, err := timeutil.ParseDate(raw)
		if err != nil {
			return f, err
		}
		*dst = &t
	}
	return f, nil
}

func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	f, err := paymentFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	list, err := h.Service.GetPayments(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *PaymentHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	f, err := paymentFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	summary, err := h.Service.Summary(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type driverPaymentRequest struct {
	DriverID    string          `json:"driver_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (h *PaymentHandler) CreateDriverPayment(w http.ResponseWriter, r *http.Request) {
	var req driverPaymentRequest
	if !decodeValid(w, r, &req) {
		return
	}
	p, err := h.Service.CreateDriverPayment(r.Context(), req.DriverID, req.Amount, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type advertiserPaymentRequest struct {
	AdvertiserID string                   `json:"advertiser_id" validate:"required"`
	CampaignID   string                   `json:"campaign_id"`
	Amount       decimal.Decimal          `json:"amount"`
	Method       models.PaymentMethodType `json:"payment_method"`
}

func (h *PaymentHandler) ProcessAdvertiserPayment(w http.ResponseWriter, r *http.Request) {
	var req advertiserPaymentRequest
	if !decodeValid(w, r, &req) {
		return
	}
	p, err := h.Service.ProcessAdvertiserPayment(r.Context(), req.AdvertiserID, req.CampaignID, req.Amount, req.Method)
	if err != nil {
		writeError(w, err)
		return
	}
	h.confirm(r.Context(), p)
	writeJSON(w, http.StatusCreated, p)
}

func (h *PaymentHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	var form payments.PaymentForm
	if !decodeJSON(w, r, &form) {
		return
	}
	p, err := h.Service.SubmitPaymentForm(r.Context(), form)
	if err != nil {
		writeError(w, err)
		return
	}
	h.confirm(r.Context(), p)
	writeJSON(w, http.StatusCreated, p)
}

type statusRequest struct {
	Status models.PaymentStatus `json:"status" validate:"required"`
}

type statusResponse struct {
	Payment models.Payment  `json:"payment"`
	Invoice *models.Invoice `json:"invoice,omitempty"`
}

// UpdateStatus moves a payment along its lifecycle. Completing a payment
// settles its invoice and sends the payer a confirmation.
func (h *PaymentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := getParam(r, "id")
	if id == "" {
		http.Error(w, "Missing payment ID", http.StatusBadRequest)
		return
	}
	var req statusRequest
	if !decodeValid(w, r, &req) {
		return
	}
	before, err := h.Service.GetPayment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := h.Service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := statusResponse{Payment: p}
	if h.Invoices != nil {
		inv, settled, err := h.Invoices.SettlePayment(r.Context(), p)
		if err != nil {
			writeError(w, err)
			return
		}
		if settled {
			resp.Invoice = &inv
		}
	}
	if before.Status != p.Status {
		h.confirm(r.Context(), p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PaymentHandler) confirm(ctx context.Context, p models.Payment) {
	if p.Status != models.PaymentCompleted {
		return
	}
	h.Notifier.NotifyLedgerUser(ctx, "payment_confirmation", p.UserID, func(u models.User) string {
		return notify.PaymentConfirmation(u.Name, p.Amount, p.Description)
	})
}

type paymentMethodRequest struct {
	UserID  string                   `json:"user_id" validate:"required"`
	Type    models.PaymentMethodType `json:"method_type" validate:"required"`
	Details map[string]string        `json:"details"`
}

func (h *PaymentHandler) AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req paymentMethodRequest
	if !decodeValid(w, r, &req) {
		return
	}
	m, err := h.Service.AddPaymentMethod(r.Context(), req.UserID, req.Type, req.Details)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *PaymentHandler) GetPaymentMethods(w http.ResponseWriter, r *http.Request) {
	userID := getParam(r, "user_id")
	if userID == "" {
		http.Error(w, "Missing user ID", http.StatusBadRequest)
		return
	}
	methods, err := h.Service.GetPaymentMethods(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if methods == nil {
		methods = []models.PaymentMethod{}
	}
	writeJSON(w, http.StatusOK, methods)
}
