// Package auth issues and rotates credentials: argon2id passwords, JWT access
// tokens and Redis-backed refresh tokens.
package auth

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/errs"
	"github.com/5w1tchy/library-api/internal/models"
	jwtutil "github.com/5w1tchy/library-api/internal/security/jwt"
	"github.com/5w1tchy/library-api/internal/security/password"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/5w1tchy/library-api/internal/store/shared"
	"github.com/5w1tchy/library-api/internal/store/users"
	"github.com/5w1tchy/library-api/internal/validate"
)

// ErrInvalidCredentials covers unknown usernames and wrong passwords alike.
var ErrInvalidCredentials = errors.Wrap(errs.ErrAuthRequired, "invalid username or password")

type Service struct {
	db       *sql.DB
	hasher   *password.Hasher
	signer   *jwtutil.Signer
	sessions Sessions
	log      *zap.Logger
}

func NewService(db *sql.DB, hasher *password.Hasher, signer *jwtutil.Signer, sessions Sessions, log *zap.Logger) *Service {
	return &Service{db: db, hasher: hasher, signer: signer, sessions: sessions, log: log.Named("auth")}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	req.Username = shared.Clean(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(&req); err != nil {
		return RegisterResponse{}, err
	}
	pwd, warn, err := password.Validate(req.Password, req.Username, req.Email)
	if err != nil {
		return RegisterResponse{}, policyError("password", err)
	}
	hash, err := s.hasher.Hash(pwd)
	if err != nil {
		return RegisterResponse{}, err
	}

	u := models.User{Username: req.Username, Email: req.Email, PasswordHash: hash, Role: models.RoleUser}
	if err := users.Create(ctx, s.db, &u); err != nil {
		if shared.IsUniqueViolation(err) {
			return RegisterResponse{}, errors.Wrap(errs.ErrConflict, "username already taken")
		}
		return RegisterResponse{}, err
	}
	s.log.Info("user registered", zap.Int64("user_id", u.ID), zap.String("username", u.Username))

	pair, err := s.issue(ctx, u)
	if err != nil {
		return RegisterResponse{}, err
	}
	return RegisterResponse{TokenPair: pair, PasswordWarning: warn}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (TokenPair, error) {
	req.Username = shared.Clean(req.Username)
	if err := validate.Struct(&req); err != nil {
		return TokenPair{}, err
	}
	u, err := users.GetByUsername(ctx, s.db, req.Username)
	if err != nil {
		if shared.IsNotFound(err) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	ok, needsRehash, err := s.hasher.Verify(req.Password, u.PasswordHash)
	if err != nil || !ok {
		return TokenPair{}, ErrInvalidCredentials
	}
	if needsRehash {
		if phc, err := s.hasher.Hash(req.Password); err == nil {
			if err := users.UpdatePasswordHash(ctx, s.db, u.ID, phc); err != nil {
				s.log.Warn("password rehash failed", zap.Int64("user_id", u.ID), zap.Error(err))
			}
		}
	}
	return s.issue(ctx, u)
}

// Refresh rotates the refresh token. A token minted before the last
// token_version bump is rejected.
func (s *Service) Refresh(ctx context.Context, token string) (TokenPair, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return TokenPair{}, errs.Invalid("refresh_token", "is required")
	}
	uid, tv, err := s.sessions.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidRefresh) {
			return TokenPair{}, errors.Wrap(errs.ErrAuthRequired, "invalid refresh token")
		}
		return TokenPair{}, err
	}
	u, err := users.GetByID(ctx, s.db, uid)
	if err != nil {
		if shared.IsNotFound(err) {
			return TokenPair{}, errors.Wrap(errs.ErrAuthRequired, "invalid refresh token")
		}
		return TokenPair{}, err
	}
	if u.TokenVersion != tv {
		return TokenPair{}, errors.Wrap(errs.ErrAuthRequired, "token revoked")
	}
	return s.issue(ctx, u)
}

// Logout drops one refresh token; unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}

// LogoutAll revokes every access and refresh token of the user.
func (s *Service) LogoutAll(ctx context.Context, userID int64) error {
	if _, err := users.BumpTokenVersion(ctx, s.db, userID); err != nil {
		return err
	}
	s.log.Info("all sessions revoked", zap.Int64("user_id", userID))
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) (TokenPair, *password.Warning, error) {
	if err := validate.Struct(&req); err != nil {
		return TokenPair{}, nil, err
	}
	var (
		u    models.User
		warn *password.Warning
	)
	err := dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		u, err = users.GetByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if ok, _, err := s.hasher.Verify(req.OldPassword, u.PasswordHash); err != nil || !ok {
			return errs.Invalid("old_password", "is incorrect")
		}
		var pwd string
		pwd, warn, err = password.Validate(req.NewPassword, u.Username, u.Email)
		if err != nil {
			return policyError("new_password", err)
		}
		phc, err := s.hasher.Hash(pwd)
		if err != nil {
			return err
		}
		if err := users.UpdatePasswordHash(ctx, tx, u.ID, phc); err != nil {
			return err
		}
		u.TokenVersion, err = users.BumpTokenVersion(ctx, tx, u.ID)
		return err
	})
	if err != nil {
		return TokenPair{}, nil, err
	}
	pair, err := s.issue(ctx, u)
	return pair, warn, err
}

func (s *Service) Me(ctx context.Context, userID int64) (models.User, error) {
	return users.GetByID(ctx, s.db, userID)
}

// EnsureAdmin creates an ADMIN account or, when the username exists, promotes
// it and resets its password. Existing sessions of that user are revoked.
func (s *Service) EnsureAdmin(ctx context.Context, username, email, plain string) (models.User, bool, error) {
	username = shared.Clean(username)
	if username == "" {
		return models.User{}, false, errs.Invalid("username", "is required")
	}
	pwd, _, err := password.Validate(plain)
	if err != nil {
		return models.User{}, false, policyError("password", err)
	}
	phc, err := s.hasher.Hash(pwd)
	if err != nil {
		return models.User{}, false, err
	}

	var (
		u       models.User
		created bool
	)
	err = dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		u, err = users.GetByUsername(ctx, tx, username)
		switch {
		case shared.IsNotFound(err):
			u = models.User{Username: username, Email: strings.ToLower(strings.TrimSpace(email)), PasswordHash: phc, Role: models.RoleAdmin}
			created = true
			return users.Create(ctx, tx, &u)
		case err != nil:
			return err
		}
		if err := users.UpdatePasswordHash(ctx, tx, u.ID, phc); err != nil {
			return err
		}
		if err := users.SetRole(ctx, tx, u.ID, models.RoleAdmin); err != nil {
			return err
		}
		u.Role = models.RoleAdmin
		return nil
	})
	if err != nil {
		return models.User{}, false, err
	}
	s.log.Info("admin ensured", zap.Int64("user_id", u.ID), zap.String("username", u.Username), zap.Bool("created", created))
	return u, created, nil
}

func (s *Service) issue(ctx context.Context, u models.User) (TokenPair, error) {
	access, _, err := s.signer.SignAccess(u)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sessions.Issue(ctx, u.ID, u.TokenVersion)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.signer.AccessTTL().Seconds()),
	}, nil
}

func policyError(field string, err error) error {
	if errors.Is(err, password.ErrTooLong) {
		return errs.Invalid(field, "must be at most "+strconv.Itoa(password.MaxLen)+" characters")
	}
	return errs.Invalid(field, "must be at least "+strconv.Itoa(password.MinLen)+" characters")
}
