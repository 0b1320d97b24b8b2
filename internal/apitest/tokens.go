package apitest

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	issuer = "unitrack-apitest"
)

var errTokenInvalid = errors.New("token is invalid")

// claims is shared by access and refresh tokens. Generation lets a test
// revoke every token issued so far.
type claims struct {
	UserID     int64  `json:"user_id"`
	Role       string `json:"role"`
	Kind       string `json:"kind"`
	Generation int    `json:"gen"`
	jwt.RegisteredClaims
}

func signToken(secret []byte, userID int64, role, kind string, generation int, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(ttl)
	c := claims{
		UserID:     userID,
		Role:       role,
		Kind:       kind,
		Generation: generation,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Second)),
			Issuer:    issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(secret)
	return signed, expires, err
}

func parseToken(secret []byte, raw, kind string) (*claims, error) {
	token, err := jwt.ParseWithClaims(raw, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errTokenInvalid
		}
		return secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Kind != kind {
		return nil, errTokenInvalid
	}
	return c, nil
}
