package auth

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/config"
	"github.com/5w1tchy/library-api/internal/errs"
	jwtutil "github.com/5w1tchy/library-api/internal/security/jwt"
	"github.com/5w1tchy/library-api/internal/security/password"
)

type memSessions struct {
	mu sync.Mutex
	m  map[string][2]int64
	n  int
}

func (s *memSessions) Issue(_ context.Context, userID int64, tv int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	tok := "rt-" + string(rune('a'+s.n))
	s.m[tok] = [2]int64{userID, int64(tv)}
	return tok, nil
}

func (s *memSessions) Consume(_ context.Context, token string) (int64, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[token]
	if !ok {
		return 0, 0, ErrInvalidRefresh
	}
	delete(s.m, token)
	return v[0], int(v[1]), nil
}

func (s *memSessions) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, token)
	return nil
}

var (
	userCols = []string{"id", "username", "email", "password_hash", "role", "token_version", "created_at"}
	qByName  = regexp.QuoteMeta(`FROM users WHERE username = $1`)
	qByID    = regexp.QuoteMeta(`FROM users WHERE id = $1`)
)

func fastArgon() config.Argon2 {
	return config.Argon2{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, *memSessions) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	signer := jwtutil.NewSigner(config.Auth{
		JWTSecret: "0123456789abcdef0123456789abcdef",
		AccessTTL: 15 * time.Minute,
		ClockSkew: time.Second,
		Issuer:    "library-api",
	})
	sess := &memSessions{m: map[string][2]int64{}}
	return NewService(db, password.NewHasher(fastArgon()), signer, sess, zap.NewNop()), mock, sess
}

func hashOf(t *testing.T, plain string) string {
	t.Helper()
	phc, err := password.NewHasher(fastArgon()).Hash(plain)
	require.NoError(t, err)
	return phc
}

func TestRegister(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("alice", "alice@example.com", sqlmock.AnyArg(), "USER").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token_version", "created_at"}).AddRow(int64(1), 1, time.Now()))

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username: " alice ",
		Email:    "Alice@Example.com",
		Password: "password1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, "Bearer", resp.TokenType)
	require.NotNil(t, resp.PasswordWarning)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "  short  ",
	})
	require.True(t, errors.Is(err, errs.ErrValidation))
}

func TestLogin(t *testing.T) {
	phc := hashOf(t, "correct horse battery")

	t.Run("ok", func(t *testing.T) {
		svc, mock, _ := newTestService(t)
		mock.ExpectQuery(qByName).WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(1), "alice", "a@x", phc, "USER", 1, time.Now()))

		pair, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "correct horse battery"})
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, mock, _ := newTestService(t)
		mock.ExpectQuery(qByName).WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(1), "alice", "a@x", phc, "USER", 1, time.Now()))

		_, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "nope nope nope"})
		require.True(t, errors.Is(err, errs.ErrAuthRequired))
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, mock, _ := newTestService(t)
		mock.ExpectQuery(qByName).WithArgs("ghost").WillReturnRows(sqlmock.NewRows(userCols))

		_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever1"})
		require.True(t, errors.Is(err, errs.ErrAuthRequired))
	})
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, mock, sess := newTestService(t)

	old, err := sess.Issue(context.Background(), 1, 1)
	require.NoError(t, err)

	mock.ExpectQuery(qByID).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(1), "alice", "a@x", "phc", "USER", 1, time.Now()))

	pair, err := svc.Refresh(context.Background(), old)
	require.NoError(t, err)
	require.NotEqual(t, old, pair.RefreshToken)

	_, err = svc.Refresh(context.Background(), old)
	require.True(t, errors.Is(err, errs.ErrAuthRequired), "a consumed refresh token must not work twice")
}

func TestRefreshRejectsRevokedVersion(t *testing.T) {
	svc, mock, sess := newTestService(t)

	tok, err := sess.Issue(context.Background(), 1, 1)
	require.NoError(t, err)

	mock.ExpectQuery(qByID).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(1), "alice", "a@x", "phc", "USER", 2, time.Now()))

	_, err = svc.Refresh(context.Background(), tok)
	require.True(t, errors.Is(err, errs.ErrAuthRequired))
}

func TestEnsureAdminPromotesExistingUser(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qByName).WithArgs("root").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(4), "root", "r@x", "old", "USER", 3, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET password_hash = $1 WHERE id = $2`)).
		WithArgs(sqlmock.AnyArg(), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET role = $1, token_version = token_version + 1 WHERE id = $2`)).
		WithArgs("ADMIN", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u, created, err := svc.EnsureAdmin(context.Background(), "root", "", "a-long-secret")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "ADMIN", string(u.Role))
}

func TestEnsureAdminCreates(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qByName).WithArgs("root").WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("root", "root@example.com", sqlmock.AnyArg(), "ADMIN").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token_version", "created_at"}).AddRow(int64(1), 1, time.Now()))
	mock.ExpectCommit()

	u, created, err := svc.EnsureAdmin(context.Background(), "root", "Root@Example.com", "a-long-secret")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, int64(1), u.ID)
}

func TestParseSession(t *testing.T) {
	id, tv, err := parseSession("42|3")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
	require.Equal(t, 3, tv)

	for _, bad := range []string{"", "42", "x|1", "1|y"} {
		_, _, err := parseSession(bad)
		require.ErrorIs(t, err, ErrInvalidRefresh, bad)
	}
}
