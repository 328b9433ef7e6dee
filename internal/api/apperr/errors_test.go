package apperr

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/library-api/internal/errs"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{"not found", errs.NotFound("book", 7), http.StatusNotFound, ""},
		{"wrapped not found", errors.Wrap(errs.NotFound("user", "x"), "load"), http.StatusNotFound, ""},
		{"validation", errs.Invalid("title", "is required"), http.StatusBadRequest, "title"},
		{"auth", errs.ErrAuthRequired, http.StatusUnauthorized, ""},
		{"unique", errors.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "books_isbn_key"}, "insert book"), http.StatusConflict, "isbn"},
		{"fk restrict", &pgconn.PgError{
			Code:           pgerrcode.ForeignKeyViolation,
			Message:        `update or delete on table "authors" violates foreign key constraint "books_author_id_fkey" on table "books"`,
			ConstraintName: "books_author_id_fkey",
		}, http.StatusConflict, "author_id"},
		{"check", &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "books_page_count_check"}, http.StatusUnprocessableEntity, "page_count"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromError(tt.err)
			require.Equal(t, tt.status, p.Status)
			if tt.field != "" {
				require.NotEmpty(t, p.FieldErrors)
				require.Equal(t, tt.field, p.FieldErrors[0].Field)
			}
		})
	}
}

func TestWriteSetsProblemHeaders(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/books/9", nil)
	r.Header.Set("X-Request-ID", "rid-1")
	w := httptest.NewRecorder()

	Handle(w, r, nil, errs.NotFound("book", 9))

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	require.Contains(t, w.Body.String(), `"request_id":"rid-1"`)
	require.Contains(t, w.Body.String(), `"instance":"/books/9"`)
}
