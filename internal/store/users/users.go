package users

import (
	"context"

	"github.com/pkg/errors"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/5w1tchy/library-api/internal/store/shared"
)

const cols = `id, username, email, password_hash, role, token_version, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (models.User, error) {
	var u models.User
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.TokenVersion, &u.CreatedAt)
	return u, err
}

func GetByID(ctx context.Context, q dbx.DBTX, id int64) (models.User, error) {
	u, err := scan(q.QueryRowContext(ctx, `SELECT `+cols+` FROM users WHERE id = $1`, id))
	if err != nil {
		return models.User{}, shared.NotFoundOr(err, "user", id)
	}
	return u, nil
}

func GetByUsername(ctx context.Context, q dbx.DBTX, username string) (models.User, error) {
	u, err := scan(q.QueryRowContext(ctx, `SELECT `+cols+` FROM users WHERE username = $1`, username))
	if err != nil {
		return models.User{}, shared.NotFoundOr(err, "user", username)
	}
	return u, nil
}

// Create inserts u; an empty Role defaults to USER.
func Create(ctx context.Context, q dbx.DBTX, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	err := q.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, token_version, created_at`,
		u.Username, u.Email, u.PasswordHash, string(u.Role),
	).Scan(&u.ID, &u.TokenVersion, &u.CreatedAt)
	return errors.Wrap(err, "insert user")
}

func UpdatePasswordHash(ctx context.Context, q dbx.DBTX, id int64, hash string) error {
	res, err := q.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return errors.Wrapf(err, "update password of user %d", id)
	}
	if err := dbx.Affected(res); err != nil {
		return shared.NotFoundOr(err, "user", id)
	}
	return nil
}

// BumpTokenVersion revokes every outstanding token of the user.
func BumpTokenVersion(ctx context.Context, q dbx.DBTX, id int64) (int, error) {
	var tv int
	err := q.QueryRowContext(ctx,
		`UPDATE users SET token_version = token_version + 1 WHERE id = $1 RETURNING token_version`, id,
	).Scan(&tv)
	if err != nil {
		return 0, shared.NotFoundOr(err, "user", id)
	}
	return tv, nil
}

// SetRole changes the role and bumps token_version so the change applies to live sessions.
func SetRole(ctx context.Context, q dbx.DBTX, id int64, role models.Role) error {
	res, err := q.ExecContext(ctx,
		`UPDATE users SET role = $1, token_version = token_version + 1 WHERE id = $2`, string(role), id)
	if err != nil {
		return errors.Wrapf(err, "set role of user %d", id)
	}
	if err := dbx.Affected(res); err != nil {
		return shared.NotFoundOr(err, "user", id)
	}
	return nil
}

func CountAdmins(ctx context.Context, q dbx.DBTX) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = 'ADMIN'`).Scan(&n)
	return n, errors.Wrap(err, "count admins")
}
