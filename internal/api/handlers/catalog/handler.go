// Package catalog serves the book, author and category endpoints.
package catalog

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/models"
	catalogsvc "github.com/5w1tchy/library-api/internal/service/catalog"
)

//go:generate mockgen -source=handler.go -destination=mocks/mock.go

type Catalog interface {
	FindBooks(ctx context.Context, f models.BookFilter) ([]models.Book, error)
	FindBooksByAuthor(ctx context.Context, fragment string) ([]models.Book, error)
	FindBooksByTitle(ctx context.Context, fragment string) ([]models.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (models.Book, error)
	GetBook(ctx context.Context, id int64) (models.Book, error)
	CreateBook(ctx context.Context, in catalogsvc.BookInput) (models.Book, error)
	UpdateBook(ctx context.Context, id int64, in catalogsvc.BookInput) (models.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	SetBookCover(ctx context.Context, id int64, key string) error

	ListAuthors(ctx context.Context) ([]models.Author, error)
	GetAuthor(ctx context.Context, id int64) (models.Author, error)
	CreateAuthor(ctx context.Context, in catalogsvc.AuthorInput) (models.Author, error)
	UpdateAuthor(ctx context.Context, id int64, in catalogsvc.AuthorInput) (models.Author, error)
	DeleteAuthor(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (models.Category, error)
	CreateCategory(ctx context.Context, in catalogsvc.CategoryInput) (models.Category, error)
	UpdateCategory(ctx context.Context, id int64, in catalogsvc.CategoryInput) (models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// CoverStore is the object storage behind cover images.
type CoverStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PresignGet(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type Handler struct {
	svc    Catalog
	covers CoverStore
	log    *zap.Logger
}

// NewHandler wires the catalog; covers may be nil when object storage is not configured.
func NewHandler(svc Catalog, covers CoverStore, log *zap.Logger) *Handler {
	return &Handler{svc: svc, covers: covers, log: log.Named("catalog")}
}
