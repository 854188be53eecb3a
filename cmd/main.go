package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"flowAdsBack/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	addr := flag.String("addr", "", "HTTP network address (overrides config)")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		errorLog.Fatal(err)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}

	if err := run(cfg, infoLog, errorLog); err != nil {
		errorLog.Fatal(err)
	}
}

// run serves until a shutdown signal arrives or the listener fails. Deferred cleanup
// always runs before main exits.
func run(cfg config.Config, infoLog, errorLog *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp(ctx, cfg, errorLog, infoLog)
	if err != nil {
		return err
	}
	defer app.close()

	startOverdueSweeper(ctx, app.invoices, cfg.Invoices.OverdueInterval, infoLog, errorLog)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8501"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-User-Id", "X-Role"},
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		ErrorLog:     errorLog,
		Handler:      c.Handler(app.routes()),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errorLog.Printf("shutdown: %v", err)
		}
	}()

	infoLog.Printf("Starting server on %s (store=%s)", cfg.Server.Address, cfg.Store.Driver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
