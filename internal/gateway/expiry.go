package gateway

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenStale reports whether access is a JWT whose exp claim falls within
// skew of now. The signature is deliberately not verified — the client
// holds no key and only wants to skip a round-trip that is certain to 401.
// Tokens that are not JWTs, or carry no exp, are never considered stale
// here; they fall back to the reactive 401 path.
func tokenStale(access string, skew time.Duration, now time.Time) bool {
	if access == "" {
		return false
	}
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(access, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Add(skew).Before(claims.ExpiresAt.Time)
}
