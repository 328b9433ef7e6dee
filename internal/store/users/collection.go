package users

import (
	"context"

	"github.com/pkg/errors"

	"github.com/5w1tchy/library-api/internal/store/dbx"
)

// AddBook links a book to a user's collection. added is false when it was already there.
func AddBook(ctx context.Context, q dbx.DBTX, userID, bookID int64) (added bool, err error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO user_books (user_id, book_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, book_id) DO NOTHING
	`, userID, bookID)
	if err != nil {
		return false, errors.Wrapf(err, "add book %d to user %d", bookID, userID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "rows affected")
	}
	return n > 0, nil
}

func RemoveBook(ctx context.Context, q dbx.DBTX, userID, bookID int64) (removed bool, err error) {
	res, err := q.ExecContext(ctx, `DELETE FROM user_books WHERE user_id = $1 AND book_id = $2`, userID, bookID)
	if err != nil {
		return false, errors.Wrapf(err, "remove book %d from user %d", bookID, userID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "rows affected")
	}
	return n > 0, nil
}

// HasExternalID reports whether any book in the collection carries externalID.
func HasExternalID(ctx context.Context, q dbx.DBTX, userID int64, externalID string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM user_books ub
			JOIN books b ON b.id = ub.book_id
			WHERE ub.user_id = $1 AND b.external_id = $2
		)
	`, userID, externalID).Scan(&exists)
	return exists, errors.Wrap(err, "check collection by external id")
}
