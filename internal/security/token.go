package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-feedback-gate/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

type tokenClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Type     string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 tokens. It holds no mutable state and
// is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

func NewTokenCodec(secret string) (*TokenCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token signing secret is required")
	}

	return &TokenCodec{secret: []byte(secret), now: time.Now}, nil
}

// WithClock returns a copy of the codec reading time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	return &TokenCodec{secret: c.secret, now: now}
}

func (c *TokenCodec) Issue(identity model.Identity, kind model.TokenKind, ttl time.Duration) (string, time.Time, error) {
	issuedAt := c.now().UTC()
	expiresAt := issuedAt.Add(ttl)

	claims := tokenClaims{
		UserID:   identity.ID,
		Username: identity.Username,
		Email:    identity.Email,
		Type:     string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}

	return signed, claims.ExpiresAt.Time, nil
}

// Verify returns the embedded claims or ErrInvalidToken. It never returns a
// partially decoded identity.
func (c *TokenCodec) Verify(token string, kind model.TokenKind) (model.AuthClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.AuthClaims{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return model.AuthClaims{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || claims.UserID == "" || claims.Subject != claims.UserID {
		return model.AuthClaims{}, ErrInvalidToken
	}
	if model.TokenKind(claims.Type) != kind {
		return model.AuthClaims{}, ErrInvalidToken
	}

	out := model.AuthClaims{
		Identity: model.Identity{
			ID:       claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
		},
		Type:      kind,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}

	return out, nil
}
