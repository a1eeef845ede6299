package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/growthzi/dashboard/internal/core/domain"
)

// tokenClaims is what the client reads out of a credential token. The
// signature is not checked here; the backend remains the authority.
type tokenClaims struct {
	UserID    string
	ExpiresAt time.Time
}

// decodeToken reads the user id and expiry from a JWT without verifying it.
// Tokens without an exp claim are treated as expired.
func decodeToken(raw string, now time.Time) (*tokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	if exp == nil || !exp.After(now) {
		return nil, domain.ErrTokenExpired
	}

	tc := &tokenClaims{ExpiresAt: exp.Time}
	switch v := claims["user_id"].(type) {
	case string:
		tc.UserID = v
	case nil:
		// some deployments only put the subject in sub
		tc.UserID, _ = claims.GetSubject()
	default:
		tc.UserID = fmt.Sprint(v)
	}
	return tc, nil
}
