package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bmizerany/pat"
	"golang.org/x/exp/rand"

	"flowAdsBack/internal/auth"
	"flowAdsBack/internal/dashboard"
	"flowAdsBack/internal/fleet"
	"flowAdsBack/internal/invoices"
	"flowAdsBack/internal/models"
	"flowAdsBack/internal/notify"
	"flowAdsBack/internal/payments"
	"flowAdsBack/internal/store"
)

type sentSMS struct {
	phone, body string
}

type recordingSender struct {
	sent []sentSMS
	err  error
}

func (s *recordingSender) Name() string { return "recording" }

func (s *recordingSender) Send(_ context.Context, phone, body string) (notify.Result, error) {
	if s.err != nil {
		return notify.Result{}, s.err
	}
	s.sent = append(s.sent, sentSMS{phone, body})
	return notify.Result{Status: notify.StatusSuccess, Message: "ok", Recipient: phone, SID: "SM1"}, nil
}

type liveEvent struct {
	userID  int64
	role    string
	payload interface{}
}

type recordingFeed struct {
	events []liveEvent
}

func (f *recordingFeed) Push(userID int64, payload interface{}) {
	f.events = append(f.events, liveEvent{userID: userID, payload: payload})
}

func (f *recordingFeed) PushRole(role string, payload interface{}) {
	f.events = append(f.events, liveEvent{role: role, payload: payload})
}

type testEnv struct {
	mux    *pat.PatternServeMux
	sender *recordingSender
	live   *recordingFeed
	seed   fleet.SeedResult
	fleet  *fleet.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()
	paySvc := payments.NewService(st, nil)
	invSvc := invoices.NewService(st, paySvc, 0)
	fleetSvc := fleet.NewService(fleet.NewFixture(), nil, nil)
	seed, ok, err := fleet.Seed(ctx, fleetSvc, paySvc, rand.New(rand.NewSource(1)))
	if err != nil || !ok {
		t.Fatalf("seed: %v %v", ok, err)
	}
	sender := &recordingSender{}
	dispatcher := notify.NewDispatcher(sender, nil, nil, nil, nil)
	live := &recordingFeed{}
	notifier := &Notifier{Dispatcher: dispatcher, Users: fleetSvc, Live: live}
	tokens, err := auth.NewManager("test-secret")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}

	ph := &PaymentHandler{Service: paySvc, Invoices: invSvc, Notifier: notifier}
	ih := &InvoiceHandler{Service: invSvc}
	ah := &AlertHandler{Dispatcher: dispatcher}
	fh := &FleetHandler{Service: fleetSvc, Notifier: notifier}
	sh := &SessionHandler{Tokens: tokens, Users: fleetSvc}
	dh := &DashboardHandler{Service: dashboard.NewService(fleetSvc)}

	mux := pat.New()
	mux.Post("/session/demo", http.HandlerFunc(sh.DemoLogin))
	mux.Post("/session/login", http.HandlerFunc(sh.Login))
	mux.Post("/payments/driver", http.HandlerFunc(ph.CreateDriverPayment))
	mux.Post("/payments/advertiser", http.HandlerFunc(ph.ProcessAdvertiserPayment))
	mux.Post("/payments/form", http.HandlerFunc(ph.SubmitForm))
	mux.Get("/payments/summary", http.HandlerFunc(ph.GetSummary))
	mux.Put("/payments/:id/status", http.HandlerFunc(ph.UpdateStatus))
	mux.Post("/payments", http.HandlerFunc(ph.AddPayment))
	mux.Get("/payments", http.HandlerFunc(ph.GetPayments))
	mux.Post("/payment-methods", http.HandlerFunc(ph.AddPaymentMethod))
	mux.Get("/payment-methods/:user_id", http.HandlerFunc(ph.GetPaymentMethods))
	mux.Post("/invoices/overdue", http.HandlerFunc(ih.MarkOverdue))
	mux.Post("/invoices/:id/pay", http.HandlerFunc(ih.PayInvoice))
	mux.Post("/invoices", http.HandlerFunc(ih.CreateInvoice))
	mux.Get("/invoices/:id", http.HandlerFunc(ih.GetInvoice))
	mux.Get("/invoices", http.HandlerFunc(ih.GetInvoices))
	mux.Post("/alerts/sms", http.HandlerFunc(ah.SendSMS))
	mux.Post("/alerts/push", http.HandlerFunc(ah.SendPush))
	mux.Get("/alerts/sent", http.HandlerFunc(ah.GetSent))
	mux.Post("/alerts/preview/:kind", http.HandlerFunc(ah.PreviewAlert))
	mux.Put("/campaigns/:id/status", http.HandlerFunc(fh.UpdateCampaignStatus))
	mux.Put("/campaigns/:id/metrics", http.HandlerFunc(fh.UpdateCampaignMetrics))
	mux.Post("/campaigns", http.HandlerFunc(fh.CreateCampaign))
	mux.Get("/campaigns", http.HandlerFunc(fh.GetCampaigns))
	mux.Post("/users", http.HandlerFunc(fh.CreateUser))
	mux.Get("/drivers/nearby", http.HandlerFunc(fh.NearbyDrivers))
	mux.Put("/drivers/:id/location", http.HandlerFunc(fh.UpdateDriverLocation))
	mux.Get("/locations", http.HandlerFunc(fh.GetLocations))
	mux.Get("/dashboard/admin", http.HandlerFunc(dh.Admin))
	mux.Get("/dashboard/advertiser/:id", http.HandlerFunc(dh.Advertiser))
	mux.Get("/dashboard/driver/:id", http.HandlerFunc(dh.Driver))

	return &testEnv{mux: mux, sender: sender, live: live, seed: seed, fleet: fleetSvc}
}

func (e *testEnv) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.ErrNoRecord, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", models.ErrNoRecord), http.StatusNotFound},
		{models.ErrInvalidTransition, http.StatusConflict},
		{invoices.ErrNotPayable, http.StatusConflict},
		{models.ErrDuplicateEmail, http.StatusConflict},
		{models.ErrInvalidAmount, http.StatusBadRequest},
		{&payments.ValidationError{Fields: map[string]string{"Amount": "x"}}, http.StatusBadRequest},
		{notify.ErrInvalidPhone, http.StatusBadRequest},
		{fleet.ErrInvalidCredentials, http.StatusUnauthorized},
		{fleet.ErrGeoDisabled, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestPaymentsFilterAndSummary(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/payments", map[string]interface{}{
		"user_id": "u-1", "payment_type": "driver_payment", "amount": "150.50",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created models.Payment
	decode(t, rr, &created)
	if created.ID == "" || created.Status != models.PaymentPending {
		t.Fatalf("unexpected payment %+v", created)
	}

	rr = env.do(t, http.MethodPost, "/payments", map[string]interface{}{
		"user_id": "u-1", "payment_type": "driver_payment", "amount": "-1",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("negative amount: expected 400, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/payments?user_id=u-1", nil)
	var list []models.Payment
	decode(t, rr, &list)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("unexpected filtered list %+v", list)
	}

	rr = env.do(t, http.MethodGet, "/payments?payment_type=bogus", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad type: expected 400, got %d", rr.Code)
	}
	rr = env.do(t, http.MethodGet, "/payments?date_from=yesterday", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad date: expected 400, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/payments/summary", nil)
	var summary models.PaymentSummary
	decode(t, rr, &summary)
	if summary.Count != 5 || summary.CompletedCount != 4 || summary.PendingCount != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestPaymentFormRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/payments/form", map[string]interface{}{
		"user_id": "1", "user_type": "advertiser", "amount": "100", "payment_method": "upi", "upi_id": "nope",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var verr payments.ValidationError
	decode(t, rr, &verr)
	if _, ok := verr.Fields["TermsAccepted"]; !ok {
		t.Fatalf("expected terms error, got %+v", verr.Fields)
	}
}

func TestInvoicePaymentSettlesAndConfirms(t *testing.T) {
	env := newTestEnv(t)
	advertiser := fmt.Sprint(env.seed.AdvertiserID)

	rr := env.do(t, http.MethodPost, "/invoices", map[string]interface{}{
		"user_id": advertiser, "user_type": "advertiser", "amount": "500",
		"items": []map[string]string{{"description": "Ad slot", "amount": "400"}},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create invoice: %d %s", rr.Code, rr.Body.String())
	}
	var inv invoiceView
	decode(t, rr, &inv)
	if !strings.HasPrefix(inv.ID, "INV-") || !inv.ItemsMismatch {
		t.Fatalf("unexpected invoice %+v", inv)
	}

	rr = env.do(t, http.MethodPost, "/invoices/"+inv.ID+"/pay", map[string]string{"payment_method": "upi"})
	if rr.Code != http.StatusOK {
		t.Fatalf("pay invoice: %d %s", rr.Code, rr.Body.String())
	}
	var paid payInvoiceResponse
	decode(t, rr, &paid)
	if paid.Payment.Status != models.PaymentPending || paid.Invoice.PaymentID != paid.Payment.ID {
		t.Fatalf("unexpected pay response %+v", paid)
	}

	rr = env.do(t, http.MethodPut, "/payments/"+paid.Payment.ID+"/status", map[string]string{"status": "completed"})
	if rr.Code != http.StatusOK {
		t.Fatalf("complete payment: %d %s", rr.Code, rr.Body.String())
	}
	var settled statusResponse
	decode(t, rr, &settled)
	if settled.Invoice == nil || settled.Invoice.Status != models.InvoicePaid {
		t.Fatalf("invoice not settled: %+v", settled)
	}
	if len(env.sender.sent) != 1 || env.sender.sent[0].phone != "+919876543211" ||
		!strings.HasPrefix(env.sender.sent[0].body, "Payment confirmed: ₹500") {
		t.Fatalf("unexpected confirmation %+v", env.sender.sent)
	}

	rr = env.do(t, http.MethodPut, "/payments/"+paid.Payment.ID+"/status", map[string]string{"status": "pending"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("backwards transition: expected 409, got %d", rr.Code)
	}
	rr = env.do(t, http.MethodPost, "/invoices/"+inv.ID+"/pay", nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("paying a paid invoice: expected 409, got %d", rr.Code)
	}
	rr = env.do(t, http.MethodGet, "/invoices/INV-MISSING", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing invoice: expected 404, got %d", rr.Code)
	}
}

func TestAlertEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/alerts/sms", map[string]string{"phone": "9876543210", "message": "hi"})
	if rr.Code != http.StatusOK {
		t.Fatalf("sms: %d %s", rr.Code, rr.Body.String())
	}
	rr = env.do(t, http.MethodPost, "/alerts/sms", map[string]string{"phone": "12", "message": "hi"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad phone: expected 400, got %d", rr.Code)
	}

	env.sender.err = errors.New("gateway down")
	rr = env.do(t, http.MethodPost, "/alerts/sms", map[string]string{"phone": "+919876543210", "message": "hi"})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("gateway error: expected 502, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/alerts/sent", nil)
	var sent struct {
		Gateway  string               `json:"gateway"`
		Messages []notify.SentMessage `json:"messages"`
	}
	decode(t, rr, &sent)
	if sent.Gateway != "recording" || len(sent.Messages) != 2 || sent.Messages[0].Status != notify.StatusError {
		t.Fatalf("unexpected outbox %+v", sent)
	}

	rr = env.do(t, http.MethodPost, "/alerts/preview/document_expiry", map[string]interface{}{
		"name": "Ravi", "document": "license", "days_remaining": 5,
	})
	var preview map[string]string
	decode(t, rr, &preview)
	if !strings.HasPrefix(preview["message"], "Urgent: Hi Ravi") {
		t.Fatalf("unexpected preview %q", preview["message"])
	}
	rr = env.do(t, http.MethodPost, "/alerts/push", map[string]string{"token": "device", "title": "t", "body": "b"})
	var pushed map[string]bool
	decode(t, rr, &pushed)
	if pushed["sent"] {
		t.Fatalf("push should be disabled without a push backend")
	}

	rr = env.do(t, http.MethodPost, "/alerts/preview/unknown", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown kind: expected 404, got %d", rr.Code)
	}
}

func TestCampaignUpdatesNotifyAdvertiser(t *testing.T) {
	env := newTestEnv(t)
	id := env.seed.CampaignIDs[1]

	rr := env.do(t, http.MethodPut, fmt.Sprintf("/campaigns/%d/status", id), map[string]string{"status": "Active"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d %s", rr.Code, rr.Body.String())
	}
	rr = env.do(t, http.MethodPut, fmt.Sprintf("/campaigns/%d/status", id), map[string]string{"status": "Archived"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: expected 400, got %d", rr.Code)
	}
	rr = env.do(t, http.MethodPut, fmt.Sprintf("/campaigns/%d/metrics", id), map[string]int{"views": 1200})
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics: %d %s", rr.Code, rr.Body.String())
	}
	rr = env.do(t, http.MethodPut, fmt.Sprintf("/campaigns/%d/metrics", id), map[string]int{"views": 10})
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics: %d %s", rr.Code, rr.Body.String())
	}

	if len(env.sender.sent) != 2 {
		t.Fatalf("expected 2 alerts, got %+v", env.sender.sent)
	}
	if env.sender.sent[0].body != "Your campaign 'New Product Launch' is now active and being displayed on Flow Ads Cab taxis!" {
		t.Fatalf("unexpected status alert %q", env.sender.sent[0].body)
	}
	if !strings.Contains(env.sender.sent[1].body, "reached 1,000 views") {
		t.Fatalf("unexpected milestone alert %q", env.sender.sent[1].body)
	}
	if len(env.live.events) != 2 || env.live.events[0].userID != env.seed.AdvertiserID {
		t.Fatalf("unexpected live events %+v", env.live.events)
	}
	if a, ok := env.live.events[0].payload.(notify.Alert); !ok || a.Kind != "campaign_status" {
		t.Fatalf("unexpected live payload %+v", env.live.events[0].payload)
	}

	rr = env.do(t, http.MethodPut, "/campaigns/999/status", map[string]string{"status": "Active"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing campaign: expected 404, got %d", rr.Code)
	}
}

func TestFleetEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/users", map[string]string{
		"name": "Dup", "email": "demo_admin@flowadscab.com", "password": "secret1", "role": "admin",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/campaigns", map[string]interface{}{"name": "Orphan", "advertiser_id": 999})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("orphan campaign: expected 404, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPut, fmt.Sprintf("/drivers/%d/location", env.seed.DriverID), map[string]interface{}{
		"area": "Palasia", "lat": 22.72, "lon": 75.88,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("move driver: %d %s", rr.Code, rr.Body.String())
	}
	if len(env.live.events) != 1 || env.live.events[0].role != models.RoleAdmin {
		t.Fatalf("expected admin live event, got %+v", env.live.events)
	}
	rr = env.do(t, http.MethodPut, fmt.Sprintf("/drivers/%d/location", env.seed.DriverID), map[string]interface{}{
		"area": "Nowhere", "lat": 122.0, "lon": 75.88,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad latitude: expected 400, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/drivers/nearby?lat=22.72&lon=75.88", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("nearby without geo: expected 503, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/locations", nil)
	var locs []models.Location
	decode(t, rr, &locs)
	if len(locs) != 6 || locs[0].Name != "Palasia Square" {
		t.Fatalf("unexpected locations %+v", locs)
	}
}

func TestDashboardsAndSessions(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/dashboard/admin", nil)
	var admin dashboard.AdminStats
	decode(t, rr, &admin)
	if admin.ActiveCampaigns != 2 || admin.ScheduledCampaigns != 1 || admin.TotalBudget != 165000 || admin.ActiveDrivers != 1 {
		t.Fatalf("unexpected admin stats %+v", admin)
	}

	rr = env.do(t, http.MethodGet, fmt.Sprintf("/dashboard/advertiser/%d", env.seed.AdvertiserID), nil)
	var adv dashboard.AdvertiserStats
	decode(t, rr, &adv)
	if adv.TotalSpent != 30500 || adv.TotalViews != 20750 {
		t.Fatalf("unexpected advertiser stats %+v", adv)
	}

	rr = env.do(t, http.MethodGet, fmt.Sprintf("/dashboard/driver/%d?by=user", env.seed.DriverUserID), nil)
	var drv dashboard.DriverStats
	decode(t, rr, &drv)
	if drv.DriverID != env.seed.DriverID || drv.KmsToday != 45 {
		t.Fatalf("unexpected driver stats %+v", drv)
	}

	rr = env.do(t, http.MethodGet, "/dashboard/driver/abc", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad driver id: expected 400, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/session/demo", map[string]string{"role": "driver"})
	var sess sessionResponse
	decode(t, rr, &sess)
	if sess.Token == "" || sess.Role != "driver" || len(sess.Pages) != 4 {
		t.Fatalf("unexpected demo session %+v", sess)
	}

	rr = env.do(t, http.MethodPost, "/session/login", map[string]string{"email": "demo_driver@flowadscab.com", "password": "wrong"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", rr.Code)
	}
	rr = env.do(t, http.MethodPost, "/session/login", map[string]string{"email": "demo_driver@flowadscab.com", "password": fleet.DemoPassword})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rr.Code, rr.Body.String())
	}

	h := &SessionHandler{}
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rec := httptest.NewRecorder()
	h.GetSession(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous session: expected 401, got %d", rec.Code)
	}
	req = req.WithContext(auth.WithClaims(req.Context(), models.Claims{Role: "admin"}))
	rec = httptest.NewRecorder()
	h.GetSession(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("session: expected 200, got %d", rec.Code)
	}
}
