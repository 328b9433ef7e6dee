package books

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/5w1tchy/library-api/internal/store/shared"
)

var columns = []string{
	"b.id", "b.title", "b.isbn", "b.published_at", "b.author_id", "b.external_id",
	"b.publisher", "b.description", "b.language", "b.page_count",
	"b.small_thumbnail", "b.thumbnail", "b.medium_image", "b.cover_key", "b.created_at",
	"COALESCE((SELECT json_agg(bc.category_id ORDER BY bc.category_id) FROM book_categories bc WHERE bc.book_id = b.id), '[]')",
}

func selectBooks() sq.SelectBuilder {
	return dbx.PSQL.Select(columns...).From("books b")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(s scanner) (models.Book, error) {
	var (
		b         models.Book
		isbn      sql.NullString
		published sql.NullTime
		extID     sql.NullString
		pages     sql.NullInt32
		coverKey  sql.NullString
		catsJSON  []byte
	)
	if err := s.Scan(
		&b.ID, &b.Title, &isbn, &published, &b.AuthorID, &extID,
		&b.Publisher, &b.Description, &b.Language, &pages,
		&b.SmallThumbnail, &b.Thumbnail, &b.MediumImage, &coverKey, &b.CreatedAt,
		&catsJSON,
	); err != nil {
		return models.Book{}, err
	}
	b.ISBN = shared.NullString(isbn)
	b.ExternalID = shared.NullString(extID)
	b.CoverKey = shared.NullString(coverKey)
	if published.Valid {
		d := published.Time.UTC().Truncate(24 * time.Hour)
		b.PublishedAt = &d
	}
	if pages.Valid {
		n := int(pages.Int32)
		b.PageCount = &n
	}
	b.CategoryIDs = []int64{}
	if len(catsJSON) > 0 {
		if err := json.Unmarshal(catsJSON, &b.CategoryIDs); err != nil {
			return models.Book{}, errors.Wrap(err, "decode category ids")
		}
	}
	return b, nil
}

func one(ctx context.Context, q dbx.DBTX, b sq.SelectBuilder, key any) (models.Book, error) {
	query, args, err := b.Limit(1).ToSql()
	if err != nil {
		return models.Book{}, errors.Wrap(err, "build book query")
	}
	book, err := scanBook(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.Book{}, shared.NotFoundOr(err, "book", key)
	}
	return book, nil
}

func many(ctx context.Context, q dbx.DBTX, b sq.SelectBuilder) ([]models.Book, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build book query")
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query books")
	}
	defer rows.Close()

	out := []models.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan book")
		}
		out = append(out, book)
	}
	return out, errors.Wrap(rows.Err(), "iterate books")
}

func Get(ctx context.Context, q dbx.DBTX, id int64) (models.Book, error) {
	return one(ctx, q, selectBooks().Where(sq.Eq{"b.id": id}), id)
}

func GetByISBN(ctx context.Context, q dbx.DBTX, isbn string) (models.Book, error) {
	return one(ctx, q, selectBooks().Where(sq.Eq{"b.isbn": isbn}), "isbn "+isbn)
}

func GetByExternalID(ctx context.Context, q dbx.DBTX, externalID string) (models.Book, error) {
	return one(ctx, q, selectBooks().Where(sq.Eq{"b.external_id": externalID}), "external_id "+externalID)
}

// GetByTitleAndAuthor matches the exact title and the exact author display name.
func GetByTitleAndAuthor(ctx context.Context, q dbx.DBTX, title, author string) (models.Book, error) {
	b := selectBooks().
		Join("authors a ON a.id = b.author_id").
		Where(sq.Eq{"b.title": title, "a.name": author}).
		OrderBy("b.id")
	return one(ctx, q, b, title+" / "+author)
}
