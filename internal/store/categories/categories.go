package categories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/5w1tchy/library-api/internal/store/shared"
)

func Get(ctx context.Context, q dbx.DBTX, id int64) (models.Category, error) {
	var c models.Category
	err := q.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		return models.Category{}, shared.NotFoundOr(err, "category", id)
	}
	return c, nil
}

func List(ctx context.Context, q dbx.DBTX) ([]models.Category, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, errors.Wrap(err, "scan category")
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "iterate categories")
}

func Create(ctx context.Context, q dbx.DBTX, c *models.Category) error {
	err := q.QueryRowContext(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name).Scan(&c.ID)
	return errors.Wrap(err, "insert category")
}

func Update(ctx context.Context, q dbx.DBTX, c *models.Category) error {
	res, err := q.ExecContext(ctx, `UPDATE categories SET name = $1 WHERE id = $2`, c.Name, c.ID)
	if err != nil {
		return errors.Wrapf(err, "update category %d", c.ID)
	}
	if err := dbx.Affected(res); err != nil {
		return shared.NotFoundOr(err, "category", c.ID)
	}
	return nil
}

// Delete fails with a foreign-key violation while books are still linked.
func Delete(ctx context.Context, q dbx.DBTX, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete category %d", id)
	}
	if err := dbx.Affected(res); err != nil {
		return shared.NotFoundOr(err, "category", id)
	}
	return nil
}

// FindOrCreate returns the category with exactly this name, inserting one if none exists.
func FindOrCreate(ctx context.Context, q dbx.DBTX, name string) (models.Category, error) {
	var c models.Category
	err := q.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE name = $1 ORDER BY id LIMIT 1`, name,
	).Scan(&c.ID, &c.Name)
	if err == nil {
		return c, nil
	}
	if err := shared.NotFoundOr(err, "category", name); !shared.IsNotFound(err) {
		return models.Category{}, err
	}
	c = models.Category{Name: name}
	if err := Create(ctx, q, &c); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// Missing returns the ids from the input that have no category row.
func Missing(ctx context.Context, q dbx.DBTX, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := dbx.PSQL.Select("id").From("categories").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build category lookup")
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "lookup categories")
	}
	defer rows.Close()

	found := make(map[int64]struct{}, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scan category id")
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate category ids")
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
