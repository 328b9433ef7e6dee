package books

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/5w1tchy/library-api/internal/errs"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/5w1tchy/library-api/internal/store/shared"
)

func values(b *models.Book) map[string]any {
	return map[string]any{
		"title":           b.Title,
		"isbn":            b.ISBN,
		"published_at":    b.PublishedAt,
		"author_id":       b.AuthorID,
		"external_id":     b.ExternalID,
		"publisher":       b.Publisher,
		"description":     b.Description,
		"language":        b.Language,
		"page_count":      b.PageCount,
		"small_thumbnail": b.SmallThumbnail,
		"thumbnail":       b.Thumbnail,
		"medium_image":    b.MediumImage,
	}
}

// Create inserts b, links its categories and fills in ID and CreatedAt.
func Create(ctx context.Context, q dbx.DBTX, b *models.Book) error {
	return insert(ctx, q, b, "RETURNING id, created_at")
}

// CreateIfAbsent is Create that yields to a unique isbn or external_id already
// held by another row. It reports false and leaves b untouched in that case.
func CreateIfAbsent(ctx context.Context, q dbx.DBTX, b *models.Book) (bool, error) {
	err := insert(ctx, q, b, "ON CONFLICT DO NOTHING RETURNING id, created_at")
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func insert(ctx context.Context, q dbx.DBTX, b *models.Book, suffix string) error {
	query, args, err := dbx.PSQL.Insert("books").
		SetMap(values(b)).
		Suffix(suffix).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build insert book")
	}
	if err := q.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return errors.Wrap(err, "insert book")
	}
	if err := linkCategories(ctx, q, b.ID, b.CategoryIDs); err != nil {
		return err
	}
	if b.CategoryIDs == nil {
		b.CategoryIDs = []int64{}
	}
	return nil
}

// Update overwrites every editable column of b and replaces its category set.
func Update(ctx context.Context, q dbx.DBTX, b *models.Book) error {
	query, args, err := dbx.PSQL.Update("books").
		SetMap(values(b)).
		Where(sq.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build update book")
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "update book %d", b.ID)
	}
	if err := dbx.Affected(res); err != nil {
		return shared.NotFoundOr(err, "book", b.ID)
	}
	return SetCategories(ctx, q, b.ID, b.CategoryIDs)
}

func Delete(ctx context.Context, q dbx.DBTX, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete book %d", id)
	}
	if err := dbx.Affected(res); err != nil {
		return shared.NotFoundOr(err, "book", id)
	}
	return nil
}

func SetCoverKey(ctx context.Context, q dbx.DBTX, id int64, key string) error {
	res, err := q.ExecContext(ctx, `UPDATE books SET cover_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return errors.Wrapf(err, "set cover of book %d", id)
	}
	if err := dbx.Affected(res); err != nil {
		return errs.NotFound("book", id)
	}
	return nil
}
