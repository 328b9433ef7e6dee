package jwtutil

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/5w1tchy/library-api/internal/config"
	"github.com/5w1tchy/library-api/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

type Signer struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	clockSkew time.Duration
	now       func() time.Time
}

func NewSigner(cfg config.Auth) *Signer {
	return &Signer{
		secret:    []byte(cfg.JWTSecret),
		issuer:    cfg.Issuer,
		accessTTL: cfg.AccessTTL,
		clockSkew: cfg.ClockSkew,
		now:       time.Now,
	}
}

func (s *Signer) AccessTTL() time.Duration { return s.accessTTL }

// SignAccess returns (tokenString, jti).
func (s *Signer) SignAccess(u models.User) (string, string, error) {
	jti, err := randJTI()
	if err != nil {
		return "", "", err
	}
	claims := NewAccessClaims(u.ID, u.Username, string(u.Role), s.issuer, jti, u.TokenVersion, s.accessTTL, s.now())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", "", errors.Wrap(err, "sign access token")
	}
	return signed, jti, nil
}

// ParseAccess verifies the HS256 signature, expiry (with leeway) and issuer.
func (s *Signer) ParseAccess(tokenStr string) (*AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithLeeway(s.clockSkew),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenStr, &AccessClaims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func randJTI() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
