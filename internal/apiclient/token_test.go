package apiclient

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("unknown-to-the-client"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, ok := tokenExpiry(signed)
	if !ok || !got.Equal(exp) {
		t.Errorf("tokenExpiry() = (%v, %v), expected (%v, true)", got, ok, exp)
	}

	if _, ok := tokenExpiry("not-a-jwt"); ok {
		t.Error("garbage must not yield an expiry")
	}
}
