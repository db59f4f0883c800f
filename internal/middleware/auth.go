package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-feedback-gate/internal/model"
	"go-feedback-gate/pkg/apierror"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

type tokenValidator interface {
	ValidateToken(token string) (model.AuthClaims, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

type AuthMiddleware struct {
	validator tokenValidator
}

func NewAuthMiddleware(validator tokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// RequireAuth accepts the access token from the access_token cookie only.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(AccessTokenCookie)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			writeAPIError(w, apierror.Unauthorized("authentication required"))
			return
		}

		claims, err := m.validator.ValidateToken(cookie.Value)
		if err != nil {
			writeAPIError(w, apierror.Unauthorized("invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ClaimsFromContext(ctx context.Context) (model.AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(model.AuthClaims)
	return claims, ok
}

// WithClaims is for handlers exercised without the middleware in front.
func WithClaims(ctx context.Context, claims model.AuthClaims) context.Context {
	return context.WithValue(ctx, authClaimsContextKey, claims)
}
