package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var ErrInvalidRefresh = errors.New("invalid refresh token")

// Sessions stores opaque refresh tokens.
type Sessions interface {
	Issue(ctx context.Context, userID int64, tokenVersion int) (string, error)
	// Consume returns the owner of token and invalidates it.
	Consume(ctx context.Context, token string) (userID int64, tokenVersion int, err error)
	Revoke(ctx context.Context, token string) error
}

// RedisSessions keeps refresh tokens under rt:<token> with value "<userID>|<tokenVersion>".
type RedisSessions struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessions(rdb redis.Cmdable, ttl time.Duration) *RedisSessions {
	return &RedisSessions{rdb: rdb, ttl: ttl}
}

func key(token string) string { return "rt:" + token }

func (s *RedisSessions) Issue(ctx context.Context, userID int64, tokenVersion int) (string, error) {
	token, err := randToken()
	if err != nil {
		return "", err
	}
	val := strconv.FormatInt(userID, 10) + "|" + strconv.Itoa(tokenVersion)
	if err := s.rdb.Set(ctx, key(token), val, s.ttl).Err(); err != nil {
		return "", errors.Wrap(err, "store refresh token")
	}
	return token, nil
}

func (s *RedisSessions) Consume(ctx context.Context, token string) (int64, int, error) {
	val, err := s.rdb.GetDel(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, 0, ErrInvalidRefresh
	}
	if err != nil {
		return 0, 0, errors.Wrap(err, "load refresh token")
	}
	return parseSession(val)
}

func (s *RedisSessions) Revoke(ctx context.Context, token string) error {
	return errors.Wrap(s.rdb.Del(ctx, key(token)).Err(), "revoke refresh token")
}

func parseSession(val string) (int64, int, error) {
	idStr, tvStr, ok := strings.Cut(val, "|")
	if !ok {
		return 0, 0, ErrInvalidRefresh
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, 0, ErrInvalidRefresh
	}
	tv, err := strconv.Atoi(tvStr)
	if err != nil {
		return 0, 0, ErrInvalidRefresh
	}
	return id, tv, nil
}

func randToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", errors.Wrap(err, "random token")
	}
	return hex.EncodeToString(b[:]), nil
}
