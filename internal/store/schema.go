package store

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		phone VARCHAR(20),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS drivers (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		vehicle_model VARCHAR(100),
		vehicle_number VARCHAR(20),
		vehicle_color VARCHAR(30),
		license_number VARCHAR(30),
		status VARCHAR(20) NOT NULL DEFAULT 'Inactive',
		current_location_area VARCHAR(100) NOT NULL DEFAULT 'Indore',
		current_location_lat DOUBLE PRECISION NOT NULL DEFAULT 22.7196,
		current_location_lon DOUBLE PRECISION NOT NULL DEFAULT 75.8577,
		kms_today INT NOT NULL DEFAULT 0,
		hours_active DECIMAL(5,2) NOT NULL DEFAULT 0,
		current_ad_displaying BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		advertiser_id BIGINT NOT NULL REFERENCES users(id),
		status VARCHAR(20) NOT NULL DEFAULT 'Draft',
		ad_type VARCHAR(20) NOT NULL DEFAULT 'image',
		budget BIGINT NOT NULL DEFAULT 0,
		spent BIGINT NOT NULL DEFAULT 0,
		views BIGINT NOT NULL DEFAULT 0,
		impressions BIGINT NOT NULL DEFAULT 0,
		start_date DATE,
		end_date DATE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS campaign_regions (
		id BIGSERIAL PRIMARY KEY,
		campaign_id BIGINT NOT NULL REFERENCES campaigns(id),
		region_name VARCHAR(100) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id BIGSERIAL PRIMARY KEY,
		location_name VARCHAR(100) NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		views BIGINT NOT NULL DEFAULT 0,
		importance INT NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		seq BIGSERIAL PRIMARY KEY,
		id VARCHAR(64) NOT NULL UNIQUE,
		user_id VARCHAR(64) NOT NULL,
		payment_type VARCHAR(30) NOT NULL,
		amount DECIMAL(14,2) NOT NULL,
		status VARCHAR(20) NOT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		payment_method VARCHAR(30) NOT NULL DEFAULT '',
		campaign_id VARCHAR(64) NOT NULL DEFAULT '',
		transaction_id VARCHAR(32) NOT NULL DEFAULT '',
		invoice_id VARCHAR(32) NOT NULL DEFAULT '',
		payment_date TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		seq BIGSERIAL PRIMARY KEY,
		id VARCHAR(32) NOT NULL UNIQUE,
		user_id VARCHAR(64) NOT NULL,
		user_type VARCHAR(20) NOT NULL,
		amount DECIMAL(14,2) NOT NULL,
		issue_date DATE NOT NULL,
		due_date DATE NOT NULL,
		status VARCHAR(20) NOT NULL,
		payment_id VARCHAR(64) NOT NULL DEFAULT '',
		paid_at TIMESTAMP NULL
	)`,
	`CREATE TABLE IF NOT EXISTS invoice_items (
		id BIGSERIAL PRIMARY KEY,
		invoice_id VARCHAR(32) NOT NULL REFERENCES invoices(id),
		position INT NOT NULL,
		description VARCHAR(255) NOT NULL,
		amount DECIMAL(14,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payment_methods (
		seq BIGSERIAL PRIMARY KEY,
		id VARCHAR(64) NOT NULL UNIQUE,
		user_id VARCHAR(64) NOT NULL,
		method_type VARCHAR(30) NOT NULL,
		details TEXT NOT NULL,
		added_date TIMESTAMP NOT NULL
	)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		phone VARCHAR(20),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS drivers (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		vehicle_model VARCHAR(100),
		vehicle_number VARCHAR(20),
		vehicle_color VARCHAR(30),
		license_number VARCHAR(30),
		status VARCHAR(20) NOT NULL DEFAULT 'Inactive',
		current_location_area VARCHAR(100) NOT NULL DEFAULT 'Indore',
		current_location_lat DOUBLE NOT NULL DEFAULT 22.7196,
		current_location_lon DOUBLE NOT NULL DEFAULT 75.8577,
		kms_today INT NOT NULL DEFAULT 0,
		hours_active DECIMAL(5,2) NOT NULL DEFAULT 0,
		current_ad_displaying BIGINT,
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		advertiser_id BIGINT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'Draft',
		ad_type VARCHAR(20) NOT NULL DEFAULT 'image',
		budget BIGINT NOT NULL DEFAULT 0,
		spent BIGINT NOT NULL DEFAULT 0,
		views BIGINT NOT NULL DEFAULT 0,
		impressions BIGINT NOT NULL DEFAULT 0,
		start_date DATE,
		end_date DATE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (advertiser_id) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS campaign_regions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		campaign_id BIGINT NOT NULL,
		region_name VARCHAR(100) NOT NULL,
		FOREIGN KEY (campaign_id) REFERENCES campaigns(id)
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		location_name VARCHAR(100) NOT NULL,
		lat DOUBLE NOT NULL,
		lon DOUBLE NOT NULL,
		views BIGINT NOT NULL DEFAULT 0,
		importance INT NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		seq BIGINT AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(64) NOT NULL UNIQUE,
		user_id VARCHAR(64) NOT NULL,
		payment_type VARCHAR(30) NOT NULL,
		amount DECIMAL(14,2) NOT NULL,
		status VARCHAR(20) NOT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		payment_method VARCHAR(30) NOT NULL DEFAULT '',
		campaign_id VARCHAR(64) NOT NULL DEFAULT '',
		transaction_id VARCHAR(32) NOT NULL DEFAULT '',
		invoice_id VARCHAR(32) NOT NULL DEFAULT '',
		payment_date DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		seq BIGINT AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(32) NOT NULL UNIQUE,
		user_id VARCHAR(64) NOT NULL,
		user_type VARCHAR(20) NOT NULL,
		amount DECIMAL(14,2) NOT NULL,
		issue_date DATE NOT NULL,
		due_date DATE NOT NULL,
		status VARCHAR(20) NOT NULL,
		payment_id VARCHAR(64) NOT NULL DEFAULT '',
		paid_at DATETIME NULL
	)`,
	`CREATE TABLE IF NOT EXISTS invoice_items (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		invoice_id VARCHAR(32) NOT NULL,
		position INT NOT NULL,
		description VARCHAR(255) NOT NULL,
		amount DECIMAL(14,2) NOT NULL,
		FOREIGN KEY (invoice_id) REFERENCES invoices(id)
	)`,
	`CREATE TABLE IF NOT EXISTS payment_methods (
		seq BIGINT AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(64) NOT NULL UNIQUE,
		user_id VARCHAR(64) NOT NULL,
		method_type VARCHAR(30) NOT NULL,
		details TEXT NOT NULL,
		added_date DATETIME NOT NULL
	)`,
}

// Migrate creates every table the service uses if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	stmts := postgresSchema
	if d == MySQL {
		stmts = mysqlSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
