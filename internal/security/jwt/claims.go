package jwtutil

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type AccessClaims struct {
	TokenVersion int    `json:"tv"`
	Username     string `json:"usr"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

func NewAccessClaims(userID int64, username, role, issuer, jti string, tokenVersion int, ttl time.Duration, now time.Time) AccessClaims {
	return AccessClaims{
		TokenVersion: tokenVersion,
		Username:     username,
		Role:         role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    issuer,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// UserID parses the numeric subject.
func (c *AccessClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}
