package catalog_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/errs"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/service/catalog"
)

var bookCols = []string{
	"id", "title", "isbn", "published_at", "author_id", "external_id",
	"publisher", "description", "language", "page_count",
	"small_thumbnail", "thumbnail", "medium_image", "cover_key", "created_at", "categories",
}

func newService(t *testing.T) (*catalog.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return catalog.New(db, zap.NewNop()), mock
}

func TestFindBooksTitleFragmentIsNotTrimmed(t *testing.T) {
	for _, title := range []string{" dune ", "   "} {
		t.Run(title, func(t *testing.T) {
			svc, mock := newService(t)

			fragment := title
			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta(`WHERE b.title ILIKE $1 ORDER BY b.id`)).
				WithArgs("%" + title + "%").
				WillReturnRows(sqlmock.NewRows(bookCols))
			mock.ExpectCommit()

			got, err := svc.FindBooks(context.Background(), models.BookFilter{Title: &fragment})
			require.NoError(t, err)
			require.Empty(t, got)
		})
	}
}

func TestFindBooksNilTitleMatchesAll(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM books b ORDER BY b\.id$`).WillReturnRows(sqlmock.NewRows(bookCols))
	mock.ExpectCommit()

	got, err := svc.FindBooks(context.Background(), models.BookFilter{})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFindBooksByTitleRequiresFragment(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.FindBooksByTitle(context.Background(), " ")
	require.True(t, errors.Is(err, errs.ErrValidation))
}

func TestCreateBookValidation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateBook(context.Background(), catalog.BookInput{Title: "  ", PageCount: -1})

	var ve *errs.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := map[string]bool{}
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	require.True(t, fields["title"])
	require.True(t, fields["author_id"])
}

func TestCreateBookUnknownAuthor(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM authors WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "created_at"}))
	mock.ExpectRollback()

	_, err := svc.CreateBook(context.Background(), catalog.BookInput{Title: "Emma", AuthorID: 99})
	require.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestCreateBookUnknownCategory(t *testing.T) {
	svc, mock := newService(t)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM authors WHERE id = $1`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "created_at"}).AddRow(int64(2), "Jane Austen", nil, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM categories WHERE id IN ($1,$2)`)).
		WithArgs(int64(4), int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectRollback()

	_, err := svc.CreateBook(context.Background(), catalog.BookInput{
		Title:       "Emma",
		AuthorID:    2,
		CategoryIDs: []int64{4, 8, 4},
	})
	require.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestCreateBook(t *testing.T) {
	svc, mock := newService(t)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM authors WHERE id = $1`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "created_at"}).AddRow(int64(2), "Jane Austen", nil, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM categories WHERE id IN ($1)`)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO books`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(31), now))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO book_categories`)).
		WithArgs(int64(31), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := svc.CreateBook(context.Background(), catalog.BookInput{
		Title:       "  Emma ",
		ISBN:        "978-0-14-143958-7",
		PublishedAt: "1815-12-23",
		AuthorID:    2,
		CategoryIDs: []int64{4},
	})
	require.NoError(t, err)
	require.Equal(t, int64(31), b.ID)
	require.Equal(t, "Emma", b.Title)
	require.Equal(t, "9780141439587", *b.ISBN)
	require.Equal(t, 1815, b.PublishedAt.Year())
}

func TestDeleteBookMissing(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM books WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.DeleteBook(context.Background(), 5)
	require.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestCreateAuthorValidation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateAuthor(context.Background(), catalog.AuthorInput{Name: "\t"})
	require.True(t, errors.Is(err, errs.ErrValidation))
}
