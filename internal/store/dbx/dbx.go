package dbx

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so stores run inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Beginner starts transactions; *sql.DB implements it.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// PSQL is the squirrel builder for PostgreSQL placeholders.
var PSQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// WithinTx runs fn in a read-committed transaction (commit on nil, rollback on error).
func WithinTx(ctx context.Context, db Beginner, fn func(tx *sql.Tx) error) error {
	return withinTx(ctx, db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// WithinReadOnlyTx is WithinTx for read paths; it takes no write locks.
func WithinReadOnlyTx(ctx context.Context, db Beginner, fn func(tx *sql.Tx) error) error {
	return withinTx(ctx, db, &sql.TxOptions{ReadOnly: true}, fn)
}

func withinTx(ctx context.Context, db Beginner, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

// Affected returns ErrNoRows when an UPDATE/DELETE touched nothing.
func Affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
