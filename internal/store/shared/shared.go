package shared

import (
	"database/sql"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"

	"github.com/5w1tchy/library-api/internal/errs"
)

var spaceRe = regexp.MustCompile(`\s+`)

// Clean applies NFC, drops NULs and collapses whitespace runs.
func Clean(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// SplitList splits a ", "-joined display string and drops blanks and duplicates.
func SplitList(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range strings.Split(joined, ",") {
		s := Clean(p)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// EscapeLike escapes LIKE wildcards so a fragment matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func NullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func NullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func pgCode(err error) string {
	var pg *pgconn.PgError
	if errors.As(err, &pg) {
		return pg.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgerrcode.UniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == pgerrcode.ForeignKeyViolation
}

func IsNotFound(err error) bool { return errors.Is(err, errs.ErrNotFound) }

// NotFoundOr turns sql.ErrNoRows into a NOT_FOUND for entity/key and wraps anything else.
func NotFoundOr(err error, entity string, key any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound(entity, key)
	}
	return errors.Wrapf(err, "%s %v", entity, key)
}
