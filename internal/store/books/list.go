package books

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/5w1tchy/library-api/internal/store/shared"
)

// Find applies the filter predicates with AND. A nil predicate matches every book.
func Find(ctx context.Context, q dbx.DBTX, f models.BookFilter) ([]models.Book, error) {
	b := selectBooks()
	if f.Title != nil {
		b = b.Where(sq.ILike{"b.title": "%" + shared.EscapeLike(*f.Title) + "%"})
	}
	if f.AuthorID != nil {
		b = b.Where(sq.Eq{"b.author_id": *f.AuthorID})
	}
	if f.CategoryID != nil {
		b = b.Where("EXISTS (SELECT 1 FROM book_categories f WHERE f.book_id = b.id AND f.category_id = ?)", *f.CategoryID)
	}
	return many(ctx, q, b.OrderBy("b.id"))
}

func FindByTitle(ctx context.Context, q dbx.DBTX, fragment string) ([]models.Book, error) {
	return Find(ctx, q, models.BookFilter{Title: &fragment})
}

// FindByAuthorName matches books whose author name contains fragment, ignoring case.
func FindByAuthorName(ctx context.Context, q dbx.DBTX, fragment string) ([]models.Book, error) {
	b := selectBooks().
		Join("authors a ON a.id = b.author_id").
		Where(sq.ILike{"a.name": "%" + shared.EscapeLike(strings.TrimSpace(fragment)) + "%"}).
		OrderBy("b.id")
	return many(ctx, q, b)
}

// ListByUser returns a user's collection, most recently added first.
func ListByUser(ctx context.Context, q dbx.DBTX, userID int64) ([]models.Book, error) {
	b := selectBooks().
		Join("user_books ub ON ub.book_id = b.id").
		Where(sq.Eq{"ub.user_id": userID}).
		OrderBy("ub.added_at DESC", "b.id")
	return many(ctx, q, b)
}
