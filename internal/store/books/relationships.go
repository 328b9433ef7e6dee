package books

import (
	"context"

	"github.com/pkg/errors"

	"github.com/5w1tchy/library-api/internal/store/dbx"
)

// SetCategories replaces the category links of a book.
func SetCategories(ctx context.Context, q dbx.DBTX, bookID int64, categoryIDs []int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM book_categories WHERE book_id = $1`, bookID); err != nil {
		return errors.Wrapf(err, "clear categories of book %d", bookID)
	}
	return linkCategories(ctx, q, bookID, categoryIDs)
}

func linkCategories(ctx context.Context, q dbx.DBTX, bookID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	ins := dbx.PSQL.Insert("book_categories").Columns("book_id", "category_id")
	for _, id := range categoryIDs {
		ins = ins.Values(bookID, id)
	}
	query, args, err := ins.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return errors.Wrap(err, "build link categories")
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "link categories to book %d", bookID)
	}
	return nil
}
