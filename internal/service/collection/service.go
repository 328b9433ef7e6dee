// Package collection merges provider suggestions into the catalog and a user's collection.
package collection

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/errs"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/authors"
	"github.com/5w1tchy/library-api/internal/store/books"
	"github.com/5w1tchy/library-api/internal/store/categories"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/5w1tchy/library-api/internal/store/shared"
	"github.com/5w1tchy/library-api/internal/store/users"
)

// UnknownAuthor names the author of suggestions that list none.
const UnknownAuthor = "Unknown Author"

type Service struct {
	db  *sql.DB
	log *zap.Logger
}

func New(db *sql.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log.Named("collection")}
}

// AddSuggestionToCollection resolves or creates the catalog book behind sg and adds it to
// the user's collection. It is idempotent and runs as one transaction.
func (s *Service) AddSuggestionToCollection(ctx context.Context, username string, sg models.BookSuggestion) (models.Book, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.Book{}, errs.ErrAuthRequired
	}

	var (
		book  models.Book
		added bool
	)
	err := dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		u, err := users.GetByUsername(ctx, tx, username)
		if err != nil {
			return err
		}
		book, err = s.resolveBook(ctx, tx, sg)
		if err != nil {
			return err
		}
		added, err = users.AddBook(ctx, tx, u.ID, book.ID)
		return err
	})
	if err != nil {
		return models.Book{}, err
	}

	s.log.Info("suggestion merged",
		zap.String("username", username),
		zap.Int64("book_id", book.ID),
		zap.String("external_id", sg.ExternalID),
		zap.Bool("added", added),
	)
	return book, nil
}

// IsBookInCollection is false, never an error, for an unknown or empty username.
func (s *Service) IsBookInCollection(ctx context.Context, username, externalID string) (bool, error) {
	username = strings.TrimSpace(username)
	externalID = strings.TrimSpace(externalID)
	if username == "" || externalID == "" {
		return false, nil
	}

	var in bool
	err := dbx.WithinReadOnlyTx(ctx, s.db, func(tx *sql.Tx) error {
		u, err := users.GetByUsername(ctx, tx, username)
		if err != nil {
			if shared.IsNotFound(err) {
				return nil
			}
			return err
		}
		in, err = users.HasExternalID(ctx, tx, u.ID, externalID)
		return err
	})
	return in, err
}

// ListCollection returns the user's books, newest addition first.
func (s *Service) ListCollection(ctx context.Context, username string) ([]models.Book, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.ErrAuthRequired
	}
	var out []models.Book
	err := dbx.WithinReadOnlyTx(ctx, s.db, func(tx *sql.Tx) error {
		u, err := users.GetByUsername(ctx, tx, username)
		if err != nil {
			return err
		}
		out, err = books.ListByUser(ctx, tx, u.ID)
		return err
	})
	return out, err
}

// RemoveFromCollection unlinks a book. Removing a book that is not in the collection is a no-op.
func (s *Service) RemoveFromCollection(ctx context.Context, username string, bookID int64) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errs.ErrAuthRequired
	}
	return dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		u, err := users.GetByUsername(ctx, tx, username)
		if err != nil {
			return err
		}
		if _, err := books.Get(ctx, tx, bookID); err != nil {
			return err
		}
		removed, err := users.RemoveBook(ctx, tx, u.ID, bookID)
		if err != nil {
			return err
		}
		s.log.Info("book removed from collection",
			zap.String("username", username), zap.Int64("book_id", bookID), zap.Bool("removed", removed))
		return nil
	})
}

// resolveBook looks up by external id, then by (title, authors), and creates the book last.
func (s *Service) resolveBook(ctx context.Context, q dbx.DBTX, sg models.BookSuggestion) (models.Book, error) {
	if id := strings.TrimSpace(sg.ExternalID); id != "" {
		b, err := books.GetByExternalID(ctx, q, id)
		if err == nil {
			return b, nil
		}
		if !shared.IsNotFound(err) {
			return models.Book{}, err
		}
	}

	title := shared.Clean(sg.Title)
	if title == "" {
		return models.Book{}, errs.Invalid("title", "is required")
	}
	authorName := authorDisplay(sg.Authors)

	b, err := books.GetByTitleAndAuthor(ctx, q, title, authorName)
	if err == nil {
		return b, nil
	}
	if !shared.IsNotFound(err) {
		return models.Book{}, err
	}
	return s.createFromSuggestion(ctx, q, title, authorName, sg)
}

func (s *Service) createFromSuggestion(ctx context.Context, q dbx.DBTX, title, authorName string, sg models.BookSuggestion) (models.Book, error) {
	author, err := authors.FindOrCreate(ctx, q, authorName)
	if err != nil {
		return models.Book{}, err
	}

	b := models.Book{
		Title:          title,
		AuthorID:       author.ID,
		Publisher:      sg.Publisher,
		Description:    sg.Description,
		Language:       sg.Language,
		SmallThumbnail: sg.SmallThumbnail,
		Thumbnail:      sg.Thumbnail,
		MediumImage:    sg.Medium,
	}
	if id := strings.TrimSpace(sg.ExternalID); id != "" {
		b.ExternalID = &id
	}
	if sg.PageCount > 0 {
		n := sg.PageCount
		b.PageCount = &n
	}
	if sg.PublishedDate != "" {
		d, err := ParsePublishedDate(sg.PublishedDate)
		if err != nil {
			s.log.Debug("published date ignored", zap.String("external_id", sg.ExternalID), zap.Error(err))
		} else {
			b.PublishedAt = &d
		}
	}
	if isbn, err := s.freeISBN(ctx, q, sg); err != nil {
		return models.Book{}, err
	} else if isbn != "" {
		b.ISBN = &isbn
	}

	for _, name := range shared.SplitList(sg.Categories) {
		c, err := categories.FindOrCreate(ctx, q, name)
		if err != nil {
			return models.Book{}, err
		}
		b.CategoryIDs = append(b.CategoryIDs, c.ID)
	}

	created, err := books.CreateIfAbsent(ctx, q, &b)
	if err != nil {
		return models.Book{}, err
	}
	if created {
		return b, nil
	}

	// A concurrent add committed the same external id, or took the isbn, after our lookups.
	if b.ExternalID != nil {
		existing, err := books.GetByExternalID(ctx, q, *b.ExternalID)
		if err == nil {
			return existing, nil
		}
		if !shared.IsNotFound(err) {
			return models.Book{}, err
		}
	}
	if b.ISBN == nil {
		return models.Book{}, errors.Wrap(errs.ErrConflict, "book already exists")
	}
	s.log.Warn("isbn catalogued concurrently, storing book without it",
		zap.String("isbn", *b.ISBN), zap.String("external_id", sg.ExternalID))
	b.ISBN = nil
	if err := books.Create(ctx, q, &b); err != nil {
		return models.Book{}, err
	}
	return b, nil
}

// freeISBN prefers ISBN-13 over ISBN-10 and returns "" when another book already holds it.
func (s *Service) freeISBN(ctx context.Context, q dbx.DBTX, sg models.BookSuggestion) (string, error) {
	isbn := strings.TrimSpace(sg.ISBN13)
	if isbn == "" {
		isbn = strings.TrimSpace(sg.ISBN10)
	}
	if isbn == "" {
		return "", nil
	}
	_, err := books.GetByISBN(ctx, q, isbn)
	switch {
	case err == nil:
		s.log.Warn("isbn already catalogued, storing book without it",
			zap.String("isbn", isbn), zap.String("external_id", sg.ExternalID))
		return "", nil
	case shared.IsNotFound(err):
		return isbn, nil
	default:
		return "", err
	}
}

func authorDisplay(joined string) string {
	if name := shared.Clean(joined); name != "" {
		return name
	}
	return UnknownAuthor
}
