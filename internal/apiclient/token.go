package apiclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessCookieName is the cookie the API keeps its access JWT in.
const AccessCookieName = "access_token"

// AccessTokenExpiry reads the expiry of the access token cookie. The token is
// not verified: the client has no key and only uses the value for display.
func (c *Client) AccessTokenExpiry() (time.Time, bool) {
	raw, ok := c.jar.Value(AccessCookieName)
	if !ok || raw == "" {
		return time.Time{}, false
	}
	return tokenExpiry(raw)
}

func tokenExpiry(raw string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
