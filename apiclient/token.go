package apiclient

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenExpiry reads the "exp" claim of a JWT bearer token without verifying
// its signature; the backend remains the authority on validity. ok is false
// when the token carries no expiry.
func TokenExpiry(token string) (expiresAt time.Time, ok bool, err error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}

var errTokenExpired = errors.New("api token has expired")

func checkTokenExpiry(token string, now time.Time) error {
	expiresAt, ok, err := TokenExpiry(token)
	if err != nil || !ok {
		// Opaque tokens are fine; nothing to check.
		return nil
	}
	if !expiresAt.After(now) {
		return errTokenExpired
	}
	return nil
}

func (c *Client) warnIfTokenExpired(token string) {
	if err := checkTokenExpiry(token, time.Now()); err != nil {
		c.logger.Warn("configured API token looks expired; requests will likely be rejected",
			slog.Any("error", err))
	}
}
