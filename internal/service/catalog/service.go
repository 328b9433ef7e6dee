// Package catalog is the read/filter path over books plus CRUD for books, authors and categories.
package catalog

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/errs"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/authors"
	"github.com/5w1tchy/library-api/internal/store/books"
	"github.com/5w1tchy/library-api/internal/store/categories"
	"github.com/5w1tchy/library-api/internal/store/dbx"
)

type Service struct {
	db  *sql.DB
	log *zap.Logger
}

func New(db *sql.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log.Named("catalog")}
}

// FindBooks returns books matching every non-nil predicate of f. The title
// fragment is matched as given, surrounding spaces included.
func (s *Service) FindBooks(ctx context.Context, f models.BookFilter) ([]models.Book, error) {
	var out []models.Book
	err := dbx.WithinReadOnlyTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		out, err = books.Find(ctx, tx, f)
		return err
	})
	return out, err
}

func (s *Service) FindBooksByAuthor(ctx context.Context, fragment string) ([]models.Book, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, errs.Invalid("author", "is required")
	}
	var out []models.Book
	err := dbx.WithinReadOnlyTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		out, err = books.FindByAuthorName(ctx, tx, fragment)
		return err
	})
	return out, err
}

func (s *Service) FindBooksByTitle(ctx context.Context, fragment string) ([]models.Book, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, errs.Invalid("title", "is required")
	}
	var out []models.Book
	err := dbx.WithinReadOnlyTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		out, err = books.FindByTitle(ctx, tx, fragment)
		return err
	})
	return out, err
}

func (s *Service) GetBookByISBN(ctx context.Context, isbn string) (models.Book, error) {
	isbn = strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
	if isbn == "" {
		return models.Book{}, errs.Invalid("isbn", "is required")
	}
	var out models.Book
	err := dbx.WithinReadOnlyTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		out, err = books.GetByISBN(ctx, tx, isbn)
		return err
	})
	return out, err
}

func (s *Service) GetBook(ctx context.Context, id int64) (models.Book, error) {
	return books.Get(ctx, s.db, id)
}

// CreateBook requires the referenced author and categories to exist.
func (s *Service) CreateBook(ctx context.Context, in BookInput) (models.Book, error) {
	if err := in.validate(); err != nil {
		return models.Book{}, err
	}
	b, err := in.toBook()
	if err != nil {
		return models.Book{}, err
	}
	err = dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, b.AuthorID, b.CategoryIDs); err != nil {
			return err
		}
		return books.Create(ctx, tx, &b)
	})
	if err != nil {
		return models.Book{}, err
	}
	s.log.Info("book created", zap.Int64("book_id", b.ID), zap.String("title", b.Title))
	return b, nil
}

// UpdateBook replaces every editable field of the book, including its categories.
func (s *Service) UpdateBook(ctx context.Context, id int64, in BookInput) (models.Book, error) {
	if err := in.validate(); err != nil {
		return models.Book{}, err
	}
	b, err := in.toBook()
	if err != nil {
		return models.Book{}, err
	}
	b.ID = id
	var out models.Book
	err = dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, b.AuthorID, b.CategoryIDs); err != nil {
			return err
		}
		if err := books.Update(ctx, tx, &b); err != nil {
			return err
		}
		out, err = books.Get(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	if err := books.Delete(ctx, s.db, id); err != nil {
		return err
	}
	s.log.Info("book deleted", zap.Int64("book_id", id))
	return nil
}

// SetBookCover records the object-storage key of an uploaded cover.
func (s *Service) SetBookCover(ctx context.Context, id int64, key string) error {
	return books.SetCoverKey(ctx, s.db, id, key)
}

func checkRefs(ctx context.Context, q dbx.DBTX, authorID int64, categoryIDs []int64) error {
	if _, err := authors.Get(ctx, q, authorID); err != nil {
		return err
	}
	missing, err := categories.Missing(ctx, q, categoryIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return errs.NotFound("category", missing[0])
	}
	return nil
}
