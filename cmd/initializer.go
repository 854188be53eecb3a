package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"flowAdsBack/internal/auth"
	"flowAdsBack/internal/config"
	"flowAdsBack/internal/dashboard"
	"flowAdsBack/internal/fleet"
	"flowAdsBack/internal/geo"
	"flowAdsBack/internal/handlers"
	"flowAdsBack/internal/invoices"
	"flowAdsBack/internal/notify"
	"flowAdsBack/internal/payments"
	"flowAdsBack/internal/store"
	"flowAdsBack/internal/ws"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger

	store    store.Store
	db       *sql.DB
	rdb      *redis.Client
	tokens   *auth.Manager
	invoices *invoices.Service
	alertHub *ws.AlertHub

	sessionHandler   *handlers.SessionHandler
	paymentHandler   *handlers.PaymentHandler
	invoiceHandler   *handlers.InvoiceHandler
	alertHandler     *handlers.AlertHandler
	fleetHandler     *handlers.FleetHandler
	dashboardHandler *handlers.DashboardHandler
}

func initializeApp(ctx context.Context, cfg config.Config, errorLog, infoLog *log.Logger) (*application, error) {
	logger := newAppLogger(infoLog, errorLog)
	app := &application{errorLog: errorLog, infoLog: infoLog}

	st, db, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	app.store, app.db = st, db

	var repo fleet.Repository = fleet.NewFixture()
	if db != nil {
		repo = fleet.NewSQLRepository(db, store.Dialect(cfg.Store.Driver))
	}

	var tracker fleet.DriverTracker
	var outbox notify.Outbox = notify.NewMemoryOutbox()
	if cfg.Redis.Addr != "" {
		app.rdb = openRedis(ctx, cfg, infoLog, errorLog)
	}
	if app.rdb != nil {
		tracker = geo.NewDriverLocator(app.rdb, cfg.Fleet.City)
		outbox = notify.NewRedisOutbox(app.rdb)
	}

	paySvc := payments.NewService(st, logger)
	invSvc := invoices.NewService(st, paySvc, cfg.Invoices.DueDays)
	fleetSvc := fleet.NewService(repo, tracker, logger)
	app.invoices = invSvc

	if cfg.Store.Driver == "memory" || cfg.Store.Seed {
		res, seeded, err := fleet.Seed(ctx, fleetSvc, paySvc, nil)
		if err != nil {
			app.close()
			return nil, err
		}
		if seeded {
			infoLog.Printf("demo data loaded: advertiser=%d driver=%d campaigns=%d", res.AdvertiserID, res.DriverID, len(res.CampaignIDs))
		}
	}
	if n, err := fleetSvc.IndexDrivers(ctx); err != nil {
		errorLog.Printf("index drivers: %v", err)
	} else if n > 0 {
		infoLog.Printf("indexed %d drivers in the geo set", n)
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		infoLog.Printf("JWT_SECRET not set, using an ephemeral signing key")
	}
	app.tokens, err = auth.NewManager(secret)
	if err != nil {
		app.close()
		return nil, err
	}

	app.alertHub = ws.NewAlertHub(logger)
	sender := newSMSSender(cfg, logger, errorLog)
	var pusher notify.Pusher
	if cfg.Push.FirebaseCredentials != "" {
		ps, err := notify.NewPushSender(ctx, cfg.Push.FirebaseCredentials)
		if err != nil {
			errorLog.Printf("push notifications disabled: %v", err)
		} else {
			pusher = ps
		}
	}
	dispatcher := notify.NewDispatcher(sender, outbox, app.alertHub, pusher, logger)
	infoLog.Printf("SMS gateway: %s", dispatcher.Gateway())

	notifier := &handlers.Notifier{Dispatcher: dispatcher, Users: fleetSvc, Live: app.alertHub, Log: logger}
	app.sessionHandler = &handlers.SessionHandler{Tokens: app.tokens, Users: fleetSvc}
	app.paymentHandler = &handlers.PaymentHandler{Service: paySvc, Invoices: invSvc, Notifier: notifier}
	app.invoiceHandler = &handlers.InvoiceHandler{Service: invSvc}
	app.alertHandler = &handlers.AlertHandler{Dispatcher: dispatcher}
	app.fleetHandler = &handlers.FleetHandler{Service: fleetSvc, Notifier: notifier}
	app.dashboardHandler = &handlers.DashboardHandler{Service: dashboard.NewService(fleetSvc)}
	return app, nil
}

// openRedis connects to Redis. Geo lookups and the Redis outbox are
// disabled when the server cannot be reached.
func openRedis(ctx context.Context, cfg config.Config, infoLog, errorLog *log.Logger) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		errorLog.Printf("redis %s unavailable, geo index and sms outbox fall back: %v", cfg.Redis.Addr, err)
		rdb.Close()
		return nil
	}
	infoLog.Printf("Successfully connected to redis at %s", cfg.Redis.Addr)
	return rdb
}

// newSMSSender picks Twilio, then SNS, then the simulated gateway.
func newSMSSender(cfg config.Config, logger *appLogger, errorLog *log.Logger) notify.Sender {
	if cfg.TwilioConfigured() {
		return notify.NewTwilioSender(&http.Client{Timeout: 15 * time.Second},
			cfg.SMS.TwilioAccountSID, cfg.SMS.TwilioAuthToken, cfg.SMS.TwilioPhoneNumber)
	}
	if cfg.SMS.SNSRegion != "" {
		s, err := notify.NewSNSSender(cfg.SMS.SNSRegion)
		if err == nil {
			return s
		}
		errorLog.Printf("sns sender disabled: %v", err)
	}
	return notify.SimulatedSender{Log: logger}
}

func (app *application) close() {
	if app.rdb != nil {
		app.rdb.Close()
	}
	if app.store != nil {
		app.store.Close()
	}
}
