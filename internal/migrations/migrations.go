package migrations

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var FS embed.FS

const dir = "sql"

func setup() error {
	goose.SetBaseFS(FS)
	return goose.SetDialect("postgres")
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return errors.Wrap(err, "migrations: dialect")
	}
	return errors.Wrap(goose.UpContext(ctx, db, dir), "migrations: up")
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return errors.Wrap(err, "migrations: dialect")
	}
	return errors.Wrap(goose.DownContext(ctx, db, dir), "migrations: down")
}

// Status logs the applied state of each migration through goose's logger.
func Status(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return errors.Wrap(err, "migrations: dialect")
	}
	return errors.Wrap(goose.StatusContext(ctx, db, dir), "migrations: status")
}
