package apperr

import (
	"net/http"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

var constraintField = map[string]string{
	"books_isbn_key":                   "isbn",
	"books_external_id_key":            "external_id",
	"books_author_id_fkey":             "author_id",
	"books_page_count_check":           "page_count",
	"book_categories_category_id_fkey": "category_id",
	"book_categories_book_id_fkey":     "book_id",
	"users_username_key":               "username",
	"users_role_check":                 "role",
	"user_books_book_id_fkey":          "book_id",
}

func fieldOf(pg *pgconn.PgError) string {
	if f, ok := constraintField[pg.ConstraintName]; ok {
		return f
	}
	if pg.ColumnName != "" {
		return pg.ColumnName
	}
	for _, k := range []string{"external_id", "isbn", "username", "author_id", "category_id", "book_id"} {
		if strings.Contains(pg.Detail, k) {
			return k
		}
	}
	return "resource"
}

// FromPG maps a *pgconn.PgError anywhere in err's chain to a Problem.
func FromPG(err error) (Problem, bool) {
	var pg *pgconn.PgError
	if !errors.As(err, &pg) {
		return Problem{}, false
	}

	field := fieldOf(pg)
	conflict := func(code, msg string) Problem {
		return Problem{
			Status:      http.StatusConflict,
			Title:       "Conflict",
			FieldErrors: []FieldError{{Field: field, Code: code, Message: msg}},
		}
	}
	bad := func(status int, code, msg string) Problem {
		return Problem{
			Status:      status,
			Title:       http.StatusText(status),
			FieldErrors: []FieldError{{Field: field, Code: code, Message: msg}},
		}
	}

	switch pg.Code {
	case pgerrcode.UniqueViolation:
		return conflict("unique", "value already exists"), true
	case pgerrcode.ForeignKeyViolation:
		if strings.HasPrefix(pg.Message, "update or delete") {
			return conflict("fk", "resource is referenced by other records"), true
		}
		return conflict("fk", "referenced resource does not exist"), true
	case pgerrcode.NotNullViolation:
		return bad(http.StatusBadRequest, "not_null", "required field is missing"), true
	case pgerrcode.CheckViolation:
		return bad(http.StatusUnprocessableEntity, "check", "constraint failed"), true
	case pgerrcode.InvalidTextRepresentation:
		return bad(http.StatusBadRequest, "invalid", "invalid format"), true
	case pgerrcode.StringDataRightTruncationDataException:
		return bad(http.StatusBadRequest, "too_long", "value is too long"), true
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return Problem{
			Status:    http.StatusConflict,
			Title:     "Conflict",
			Detail:    "transaction conflict, please retry",
			Retryable: true,
		}, true
	}
	return Problem{Status: http.StatusInternalServerError, Title: "Database error"}, true
}
