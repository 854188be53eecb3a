package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// OpenDB opens and pings a relational database for the given dialect.
func OpenDB(ctx context.Context, d Dialect, dsn string) (*sql.DB, error) {
	driverName := "pgx"
	if d == MySQL {
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		dsn = cfg.FormatDSN()
		driverName = "mysql"
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(15 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Open builds the store named by driver. For relational drivers the schema
// is migrated and the raw handle is returned for collaborators that share it.
func Open(ctx context.Context, driver, dsn string) (Store, *sql.DB, error) {
	switch driver {
	case "memory":
		return NewMemory(), nil, nil
	case string(Postgres), string(MySQL):
		d := Dialect(driver)
		db, err := OpenDB(ctx, d, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", driver, err)
		}
		if err := Migrate(ctx, db, d); err != nil {
			db.Close()
			return nil, nil, err
		}
		return NewSQL(db, d), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
