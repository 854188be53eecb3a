package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	defaultAddress         = ":4000"
	defaultStoreDriver     = "memory"
	defaultInvoiceDueDays  = 15
	defaultOverdueInterval = time.Hour
	defaultCity            = "indore"
)

// Config holds runtime configuration for the Flow Ads Cab service.
type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Store struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
		Seed   bool   `yaml:"seed"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	SMS struct {
		TwilioAccountSID  string `yaml:"twilio_account_sid"`
		TwilioAuthToken   string `yaml:"twilio_auth_token"`
		TwilioPhoneNumber string `yaml:"twilio_phone_number"`
		SNSRegion         string `yaml:"sns_region"`
	} `yaml:"sms"`
	Push struct {
		FirebaseCredentials string `yaml:"firebase_credentials"`
	} `yaml:"push"`
	Invoices struct {
		DueDays         int           `yaml:"due_days"`
		OverdueInterval time.Duration `yaml:"overdue_interval"`
	} `yaml:"invoices"`
	Fleet struct {
		City string `yaml:"city"`
	} `yaml:"fleet"`
}

// TwilioConfigured reports whether every Twilio credential is present.
func (c Config) TwilioConfigured() bool {
	return c.SMS.TwilioAccountSID != "" && c.SMS.TwilioAuthToken != "" && c.SMS.TwilioPhoneNumber != ""
}

// Load reads the YAML file at path (optional when empty) and applies
// environment overrides and defaults.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config data: %w", err)
		}
	}

	overrideString(&cfg.Server.Address, "SERVER_ADDRESS")
	overrideString(&cfg.Store.Driver, "STORE_DRIVER")
	overrideString(&cfg.Store.DSN, "STORE_DSN")
	overrideString(&cfg.Redis.Addr, "REDIS_ADDR")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	overrideString(&cfg.SMS.TwilioAccountSID, "TWILIO_ACCOUNT_SID")
	overrideString(&cfg.SMS.TwilioAuthToken, "TWILIO_AUTH_TOKEN")
	overrideString(&cfg.SMS.TwilioPhoneNumber, "TWILIO_PHONE_NUMBER")
	overrideString(&cfg.SMS.SNSRegion, "SNS_REGION")
	overrideString(&cfg.Push.FirebaseCredentials, "FIREBASE_CREDENTIALS")
	overrideString(&cfg.Fleet.City, "FLEET_CITY")

	if v, err := readIntEnv("REDIS_DB"); err != nil {
		return Config{}, fmt.Errorf("parse REDIS_DB: %w", err)
	} else if v != nil {
		cfg.Redis.DB = *v
	}

	if v, err := readIntEnv("INVOICE_DUE_DAYS"); err != nil {
		return Config{}, fmt.Errorf("parse INVOICE_DUE_DAYS: %w", err)
	} else if v != nil {
		cfg.Invoices.DueDays = *v
	}

	if v, err := readIntEnv("OVERDUE_SWEEP_SECONDS"); err != nil {
		return Config{}, fmt.Errorf("parse OVERDUE_SWEEP_SECONDS: %w", err)
	} else if v != nil {
		cfg.Invoices.OverdueInterval = time.Duration(*v) * time.Second
	}

	if v := os.Getenv("STORE_SEED"); v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse STORE_SEED: %w", err)
		}
		cfg.Store.Seed = seed
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = defaultAddress
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = defaultStoreDriver
	}
	cfg.Store.Driver = strings.ToLower(cfg.Store.Driver)
	if cfg.Invoices.DueDays == 0 {
		cfg.Invoices.DueDays = defaultInvoiceDueDays
	}
	if cfg.Invoices.OverdueInterval == 0 {
		cfg.Invoices.OverdueInterval = defaultOverdueInterval
	}
	if cfg.Fleet.City == "" {
		cfg.Fleet.City = defaultCity
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures the configuration is consistent.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case "memory":
	case "postgres", "mysql":
		if c.Store.DSN == "" {
			return fmt.Errorf("store dsn is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Invoices.DueDays < 0 {
		return fmt.Errorf("invoice due days must not be negative")
	}
	if c.Invoices.OverdueInterval < 0 {
		return fmt.Errorf("overdue interval must not be negative")
	}
	return nil
}

func overrideString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func readIntEnv(name string) (*int, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
