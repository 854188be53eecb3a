package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"flowAdsBack/internal/invoices"
	"flowAdsBack/internal/models"
	"flowAdsBack/internal/timeutil"
)

type InvoiceHandler struct {
	Service *invoices.Service
	Now     func() time.Time
}

type createInvoiceRequest struct {
	UserID   string               `json:"user_id" validate:"required"`
	UserType string               `json:"user_type" validate:"required,oneof=advertiser driver"`
	Amount   decimal.Decimal      `json:"amount"`
	Items    []models.InvoiceItem `json:"items"`
	DueDate  string               `json:"due_date"`
}

type invoiceView struct {
	models.Invoice
	ItemsMismatch bool `json:"items_mismatch"`
}

func viewOf(inv models.Invoice) invoiceView {
	return invoiceView{Invoice: inv, ItemsMismatch: invoices.ItemsMismatch(inv)}
}

func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if !decodeValid(w, r, &req) {
		return
	}
	var due *time.Time
	if req.DueDate != "" {
		t, err := timeutil.ParseDate(req.DueDate)
		if err != nil {
			http.Error(w, "due_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		due = &t
	}
	inv, err := h.Service.CreateInvoice(r.Context(), req.UserID, req.UserType, req.Amount, req.Items, due)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(inv))
}

func (h *InvoiceHandler) GetInvoices(w http.ResponseWriter, r *http.Request) {
	f := models.InvoiceFilter{
		UserID: r.URL.Query().Get("user_id"),
		Status: models.InvoiceStatus(r.URL.Query().Get("status")),
	}
	if f.Status != "" && !f.Status.Valid() {
		http.Error(w, "Invalid invoice status", http.StatusBadRequest)
		return
	}
	list, err := h.Service.GetInvoices(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]invoiceView, 0, len(list))
	for _, inv := range list {
		out = append(out, viewOf(inv))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id := getParam(r, "id")
	if id == "" {
		http.Error(w, "Missing invoice ID", http.StatusBadRequest)
		return
	}
	inv, err := h.Service.GetInvoice(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(inv))
}

type payInvoiceRequest struct {
	Method models.PaymentMethodType `json:"payment_method"`
}

type payInvoiceResponse struct {
	Invoice invoiceView    `json:"invoice"`
	Payment models.Payment `json:"payment"`
}

func (h *InvoiceHandler) PayInvoice(w http.ResponseWriter, r *http.Request) {
	id := getParam(r, "id")
	if id == "" {
		http.Error(w, "Missing invoice ID", http.StatusBadRequest)
		return
	}
	var req payInvoiceRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	if req.Method == "" {
		req.Method = models.MethodCreditCard
	}
	if !req.Method.Valid() {
		http.Error(w, "Invalid payment method", http.StatusBadRequest)
		return
	}
	inv, p, err := h.Service.PayInvoice(r.Context(), id, req.Method)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payInvoiceResponse{Invoice: viewOf(inv), Payment: p})
}

// MarkOverdue runs one overdue sweep on demand.
func (h *InvoiceHandler) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	now := timeutil.Now
	if h.Now != nil {
		now = h.Now
	}
	n, err := h.Service.MarkOverdue(r.Context(), now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked_overdue": n})
}
