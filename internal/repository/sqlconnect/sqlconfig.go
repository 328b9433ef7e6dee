// Package sqlconnect opens the PostgreSQL pool through the pgx stdlib driver.
package sqlconnect

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"

	"github.com/5w1tchy/library-api/internal/config"
)

func ConnectDB(ctx context.Context, cfg config.Database) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}
