// Package adminstore backs the admin handlers with PostgreSQL.
package adminstore

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	admin "github.com/5w1tchy/library-api/internal/api/handlers/admin"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/5w1tchy/library-api/internal/store/shared"
	"github.com/5w1tchy/library-api/internal/store/users"
)

type Store struct{ db *sql.DB }

func New(db *sql.DB) admin.Store { return &Store{db: db} }

func userFilter(b sq.SelectBuilder, f admin.ListFilter) sq.SelectBuilder {
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + shared.EscapeLike(q) + "%"
		b = b.Where(sq.Or{sq.ILike{"u.email": like}, sq.ILike{"u.username": like}})
	}
	if f.Role != "" {
		b = b.Where(sq.Eq{"u.role": f.Role})
	}
	return b
}

func selectUsers() sq.SelectBuilder {
	return dbx.PSQL.Select(
		"u.id", "u.username", "u.email", "u.role", "u.created_at",
		"(SELECT COUNT(*) FROM user_books ub WHERE ub.user_id = u.id)",
	).From("users u")
}

func scanRow(s interface{ Scan(...any) error }) (admin.UserRow, error) {
	var r admin.UserRow
	err := s.Scan(&r.ID, &r.Username, &r.Email, &r.Role, &r.CreatedAt, &r.CollectionSize)
	return r, err
}

func (s *Store) ListUsers(ctx context.Context, f admin.ListFilter) ([]admin.UserRow, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Size < 1 {
		f.Size = 25
	}

	countSQL, countArgs, err := userFilter(dbx.PSQL.Select("COUNT(*)").From("users u"), f).ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build count users")
	}
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count users")
	}

	query, args, err := userFilter(selectUsers(), f).
		OrderBy("u.created_at DESC", "u.id DESC").
		Limit(uint64(f.Size)).
		Offset(uint64((f.Page - 1) * f.Size)).
		ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build list users")
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list users")
	}
	defer rows.Close()

	out := make([]admin.UserRow, 0, f.Size)
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "scan user")
		}
		out = append(out, r)
	}
	return out, total, errors.Wrap(rows.Err(), "iterate users")
}

func (s *Store) GetUser(ctx context.Context, id int64) (admin.UserRow, error) {
	query, args, err := selectUsers().Where(sq.Eq{"u.id": id}).ToSql()
	if err != nil {
		return admin.UserRow{}, errors.Wrap(err, "build get user")
	}
	r, err := scanRow(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return admin.UserRow{}, shared.NotFoundOr(err, "user", id)
	}
	return r, nil
}

func (s *Store) SetUserRole(ctx context.Context, id int64, role string) error {
	r, ok := models.ParseRole(role)
	if !ok {
		return errors.Errorf("unknown role %q", role)
	}
	return users.SetRole(ctx, s.db, id, r)
}

func (s *Store) BumpTokenVersion(ctx context.Context, id int64) error {
	_, err := users.BumpTokenVersion(ctx, s.db, id)
	return err
}

func (s *Store) AdminCount(ctx context.Context) (int, error) {
	return users.CountAdmins(ctx, s.db)
}

const statsSQL = `SELECT
	(SELECT COUNT(*) FROM users),
	(SELECT COUNT(*) FROM users WHERE role = 'ADMIN'),
	(SELECT COUNT(*) FROM books),
	(SELECT COUNT(*) FROM authors),
	(SELECT COUNT(*) FROM categories),
	(SELECT COUNT(*) FROM user_books),
	(SELECT COUNT(*) FROM users WHERE created_at >= NOW() - INTERVAL '24 hours')`

func (s *Store) Stats(ctx context.Context) (admin.StatsResponse, error) {
	var st admin.StatsResponse
	err := s.db.QueryRowContext(ctx, statsSQL).Scan(
		&st.Users, &st.Admins, &st.Books, &st.Authors, &st.Categories, &st.CollectionLinks, &st.SignupsLast24h,
	)
	return st, errors.Wrap(err, "admin stats")
}
