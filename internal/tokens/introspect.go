package tokens

import (
	"errors"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Introspector answers non-throwing questions about a token's claims without
// checking its signature. It must never be used for trust decisions; the
// Codec is the only component that verifies.
type Introspector struct {
	parser *jwt.Parser
	now    func() time.Time
}

func NewIntrospector() *Introspector {
	return &Introspector{parser: jwt.NewParser(), now: time.Now}
}

// RawClaims decodes the claim set without verifying the signature. For
// display and logging only.
func (i *Introspector) RawClaims(tokenString string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(tokenString, mc); err != nil {
		return nil, err
	}
	return Claims(mc), nil
}

// AbsoluteExpiry returns the "exp" claim as a timestamp.
func (i *Introspector) AbsoluteExpiry(tokenString string) (time.Time, error) {
	claims, err := i.RawClaims(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	exp, err := jwt.MapClaims(claims).GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.New("token has no expiry claim")
	}
	return exp.Time, nil
}

// RemainingLifetime returns the duration until expiry, or 0 when the token
// is expired, malformed or carries no expiry.
func (i *Introspector) RemainingLifetime(tokenString string) time.Duration {
	exp, err := i.AbsoluteExpiry(tokenString)
	if err != nil {
		return 0
	}
	remaining := exp.Sub(i.now())
	if remaining <= 0 {
		return 0
	}
	return remaining
}

// TTLSeconds returns the remaining whole seconds, rounded up so that any
// still-valid token reports at least 1.
func (i *Introspector) TTLSeconds(tokenString string) int64 {
	remaining := i.RemainingLifetime(tokenString)
	if remaining <= 0 {
		return 0
	}
	return int64(math.Ceil(remaining.Seconds()))
}

// IsExpired is fail-safe: any malformed or unparseable token reports true.
func (i *Introspector) IsExpired(tokenString string) bool {
	return i.TTLSeconds(tokenString) == 0
}
