package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer identifies the service that issues every token audience.
const TokenIssuer = "ExpenseBuddy"

// Audience restricts which verifier may accept a given token. A token's
// audience is fixed at issuance; a codec verifying for a different audience
// must reject it even when the signature format is structurally valid.
type Audience string

const (
	AudienceAccess            Audience = "ACCESS"
	AudienceRefresh           Audience = "REFRESH"
	AudienceEmailVerification Audience = "EMAIL_VERIFICATION"
	AudiencePasswordReset     Audience = "PASSWORD_RESET"
	AudienceFamilyInvitation  Audience = "FAMILY_INVITATION"
)

// Audiences lists every audience the codec must be configured for.
var Audiences = []Audience{
	AudienceAccess,
	AudienceRefresh,
	AudienceEmailVerification,
	AudiencePasswordReset,
	AudienceFamilyInvitation,
}

// AudienceConfig is the signing secret and default time-to-live for one
// audience. Loaded once at process start; never mutated afterwards.
type AudienceConfig struct {
	Secret string
	TTL    time.Duration
}

// Claims is the decoded claim set of a token.
type Claims map[string]any

// Subject returns the "sub" claim, or "" when absent.
func (c Claims) Subject() string {
	sub, _ := c["sub"].(string)
	return sub
}

// ErrInvalidToken covers every verification failure: bad signature, wrong
// audience, expired, malformed.
var ErrInvalidToken = errors.New("invalid token")

// Codec signs and verifies tokens per audience. Pure and stateless: no I/O,
// and it never consults the revocation store.
type Codec struct {
	audiences map[Audience]AudienceConfig
	now       func() time.Time
}

func NewCodec(audiences map[Audience]AudienceConfig) (*Codec, error) {
	for _, aud := range Audiences {
		cfg, ok := audiences[aud]
		if !ok {
			return nil, fmt.Errorf("missing config for token audience %q", aud)
		}
		if cfg.Secret == "" {
			return nil, fmt.Errorf("empty signing secret for token audience %q", aud)
		}
		if cfg.TTL <= 0 {
			return nil, fmt.Errorf("non-positive TTL for token audience %q", aud)
		}
	}
	return &Codec{audiences: audiences, now: time.Now}, nil
}

// Issue signs a token for the given audience. The caller supplies the claims
// that audience requires, minimally a non-empty "sub". The registered claims
// (iss, aud, iat, exp, jti) are owned by the codec and cannot be overridden.
func (c *Codec) Issue(audience Audience, claims Claims) (string, error) {
	cfg, ok := c.audiences[audience]
	if !ok {
		return "", fmt.Errorf("unknown token audience %q", audience)
	}
	if claims.Subject() == "" {
		return "", errors.New(`claim "sub" is required`)
	}

	now := c.now()
	mc := jwt.MapClaims{}
	for k, v := range claims {
		switch k {
		case "iss", "aud", "iat", "exp", "jti":
			continue
		}
		mc[k] = v
	}
	mc["iss"] = TokenIssuer
	mc["aud"] = string(audience)
	mc["iat"] = now.Unix()
	mc["exp"] = now.Add(cfg.TTL).Unix()
	mc["jti"] = uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return token.SignedString([]byte(cfg.Secret))
}

// Verify checks signature, expiry and audience against the given audience's
// secret and returns the claims. Revocation is a separate, explicit step.
func (c *Codec) Verify(audience Audience, tokenString string) (Claims, error) {
	cfg, ok := c.audiences[audience]
	if !ok {
		return nil, fmt.Errorf("unknown token audience %q", audience)
	}

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(string(audience)),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrInvalidToken)
	}
	return Claims(mc), nil
}
