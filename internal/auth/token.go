package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TokenTTL is how long an issued token remains valid. There is no
// revocation list; tokens live until natural expiry.
const TokenTTL = 24 * time.Hour

// minSecretLength is the minimum signing secret size for HMAC-SHA256.
const minSecretLength = 32

// ErrInvalidToken is returned by Verify for any token that cannot be
// trusted: malformed, wrong signing method, bad signature, or expired.
// Callers never see a decoded-but-unverified result.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller extracted from a verified token.
// OrgID is the tenancy scope every store operation is constrained by.
type Identity struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
}

// claims is the full claim set of an issued token: subject (user ID), org,
// issued-at and expiry. Nothing else is embedded.
type claims struct {
	OrgID string `json:"org"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies bearer tokens. It is stateless: a single
// shared HMAC secret, configured once at process start, signs every token.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

// NewTokens creates a token service from the signing secret. A missing or
// short secret is a configuration error; the caller must treat it as fatal
// rather than fall back to a default.
func NewTokens(secret []byte) (*Tokens, error) {
	if len(secret) == 0 {
		return nil, errors.New("token signing secret is required")
	}
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("token signing secret must be at least %d bytes for HMAC-SHA256", minSecretLength)
	}

	return &Tokens{secret: secret, now: time.Now}, nil
}

// Issue produces a signed token embedding the user and organization IDs,
// expiring TokenTTL from now.
func (t *Tokens) Issue(userID, orgID uuid.UUID) (string, error) {
	now := t.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		OrgID: orgID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify validates the token's signature and expiry and returns the
// embedded identity. Any failure returns ErrInvalidToken.
func (t *Tokens) Verify(tokenString string) (*Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		log.Debug().Err(err).Msg("Token parse error")
		return nil, ErrInvalidToken
	}

	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	orgID, err := uuid.Parse(c.OrgID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: userID, OrgID: orgID}, nil
}
