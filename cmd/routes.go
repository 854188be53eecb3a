package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON, app.roleLabel)
	wsMiddleware := alice.New(app.recoverPanic, app.logRequest)

	mux := pat.New()

	// Session
	mux.Post("/session/demo", standardMiddleware.ThenFunc(app.sessionHandler.DemoLogin))
	mux.Post("/session/login", standardMiddleware.ThenFunc(app.sessionHandler.Login))
	mux.Get("/session", standardMiddleware.ThenFunc(app.sessionHandler.GetSession))

	// Payments
	mux.Post("/payments/driver", standardMiddleware.ThenFunc(app.paymentHandler.CreateDriverPayment))
	mux.Post("/payments/advertiser", standardMiddleware.ThenFunc(app.paymentHandler.ProcessAdvertiserPayment))
	mux.Post("/payments/form", standardMiddleware.ThenFunc(app.paymentHandler.SubmitForm))
	mux.Get("/payments/summary", standardMiddleware.ThenFunc(app.paymentHandler.GetSummary))
	mux.Put("/payments/:id/status", standardMiddleware.ThenFunc(app.paymentHandler.UpdateStatus))
	mux.Post("/payments", standardMiddleware.ThenFunc(app.paymentHandler.AddPayment))
	mux.Get("/payments", standardMiddleware.ThenFunc(app.paymentHandler.GetPayments))

	// Payment methods
	mux.Post("/payment-methods", standardMiddleware.ThenFunc(app.paymentHandler.AddPaymentMethod))
	mux.Get("/payment-methods/:user_id", standardMiddleware.ThenFunc(app.paymentHandler.GetPaymentMethods))

	// Invoices
	mux.Post("/invoices/overdue", standardMiddleware.ThenFunc(app.invoiceHandler.MarkOverdue))
	mux.Post("/invoices/:id/pay", standardMiddleware.ThenFunc(app.invoiceHandler.PayInvoice))
	mux.Post("/invoices", standardMiddleware.ThenFunc(app.invoiceHandler.CreateInvoice))
	mux.Get("/invoices/:id", standardMiddleware.ThenFunc(app.invoiceHandler.GetInvoice))
	mux.Get("/invoices", standardMiddleware.ThenFunc(app.invoiceHandler.GetInvoices))

	// Alerts
	mux.Post("/alerts/sms", standardMiddleware.ThenFunc(app.alertHandler.SendSMS))
	mux.Post("/alerts/push", standardMiddleware.ThenFunc(app.alertHandler.SendPush))
	mux.Get("/alerts/sent", standardMiddleware.ThenFunc(app.alertHandler.GetSent))
	mux.Post("/alerts/preview/:kind", standardMiddleware.ThenFunc(app.alertHandler.PreviewAlert))
	mux.Get("/ws/alerts", wsMiddleware.ThenFunc(app.alertHub.ServeWS))

	// Fleet
	mux.Get("/users", standardMiddleware.ThenFunc(app.fleetHandler.GetUsers))
	mux.Post("/users", standardMiddleware.ThenFunc(app.fleetHandler.CreateUser))
	mux.Get("/drivers/nearby", standardMiddleware.ThenFunc(app.fleetHandler.NearbyDrivers))
	mux.Put("/drivers/:id/location", standardMiddleware.ThenFunc(app.fleetHandler.UpdateDriverLocation))
	mux.Get("/drivers", standardMiddleware.ThenFunc(app.fleetHandler.GetDrivers))
	mux.Post("/drivers", standardMiddleware.ThenFunc(app.fleetHandler.CreateDriver))
	mux.Put("/campaigns/:id/status", standardMiddleware.ThenFunc(app.fleetHandler.UpdateCampaignStatus))
	mux.Put("/campaigns/:id/metrics", standardMiddleware.ThenFunc(app.fleetHandler.UpdateCampaignMetrics))
	mux.Get("/campaigns", standardMiddleware.ThenFunc(app.fleetHandler.GetCampaigns))
	mux.Post("/campaigns", standardMiddleware.ThenFunc(app.fleetHandler.CreateCampaign))
	mux.Get("/locations", standardMiddleware.ThenFunc(app.fleetHandler.GetLocations))

	// Dashboards
	mux.Get("/dashboard/advertiser/:id", standardMiddleware.ThenFunc(app.dashboardHandler.Advertiser))
	mux.Get("/dashboard/admin", standardMiddleware.ThenFunc(app.dashboardHandler.Admin))
	mux.Get("/dashboard/driver/:id", standardMiddleware.ThenFunc(app.dashboardHandler.Driver))

	return mux
}
