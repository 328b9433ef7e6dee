package authors

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/5w1tchy/library-api/internal/store/shared"
)

const cols = `id, name, bio, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (models.Author, error) {
	var (
		a   models.Author
		bio sql.NullString
	)
	if err := s.Scan(&a.ID, &a.Name, &bio, &a.CreatedAt); err != nil {
		return models.Author{}, err
	}
	a.Bio = shared.NullString(bio)
	return a, nil
}

func Get(ctx context.Context, q dbx.DBTX, id int64) (models.Author, error) {
	a, err := scan(q.QueryRowContext(ctx, `SELECT `+cols+` FROM authors WHERE id = $1`, id))
	if err != nil {
		return models.Author{}, shared.NotFoundOr(err, "author", id)
	}
	return a, nil
}

// GetByName is an exact match on the display name; the lowest id wins when names repeat.
func GetByName(ctx context.Context, q dbx.DBTX, name string) (models.Author, error) {
	a, err := scan(q.QueryRowContext(ctx,
		`SELECT `+cols+` FROM authors WHERE name = $1 ORDER BY id LIMIT 1`, name))
	if err != nil {
		return models.Author{}, shared.NotFoundOr(err, "author", name)
	}
	return a, nil
}

func List(ctx context.Context, q dbx.DBTX) ([]models.Author, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+cols+` FROM authors ORDER BY name, id`)
	if err != nil {
		return nil, errors.Wrap(err, "list authors")
	}
	defer rows.Close()

	out := []models.Author{}
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan author")
		}
		out = append(out, a)
	}
	return out, errors.Wrap(rows.Err(), "iterate authors")
}

func Create(ctx context.Context, q dbx.DBTX, a *models.Author) error {
	err := q.QueryRowContext(ctx,
		`INSERT INTO authors (name, bio) VALUES ($1, $2) RETURNING id, created_at`,
		a.Name, a.Bio,
	).Scan(&a.ID, &a.CreatedAt)
	return errors.Wrap(err, "insert author")
}

func Update(ctx context.Context, q dbx.DBTX, a *models.Author) error {
	err := q.QueryRowContext(ctx,
		`UPDATE authors SET name = $1, bio = $2 WHERE id = $3 RETURNING created_at`,
		a.Name, a.Bio, a.ID,
	).Scan(&a.CreatedAt)
	if err != nil {
		return shared.NotFoundOr(err, "author", a.ID)
	}
	return nil
}

// Delete fails with a foreign-key violation while books still reference the author.
func Delete(ctx context.Context, q dbx.DBTX, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete author %d", id)
	}
	if err := dbx.Affected(res); err != nil {
		return shared.NotFoundOr(err, "author", id)
	}
	return nil
}

// FindOrCreate returns the author with exactly this name, inserting one if none exists.
func FindOrCreate(ctx context.Context, q dbx.DBTX, name string) (models.Author, error) {
	a, err := GetByName(ctx, q, name)
	if err == nil {
		return a, nil
	}
	if !shared.IsNotFound(err) {
		return models.Author{}, err
	}
	a = models.Author{Name: name}
	if err := Create(ctx, q, &a); err != nil {
		return models.Author{}, err
	}
	return a, nil
}
