package handler

import (
	"context"
	"net/http"
	"strings"

	"go-feedback-gate/internal/middleware"
	"go-feedback-gate/internal/model"
	"go-feedback-gate/pkg/apierror"
)

type authService interface {
	Register(ctx context.Context, username string, email string, password string) (model.AuthUser, error)
	Login(ctx context.Context, email string, password string) (model.TokenPair, error)
	VerifyUser(ctx context.Context, token string) (model.VerifiedUser, error)
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	GetUserByID(ctx context.Context, userID string) (model.AuthUser, error)
	Logout()
}

type AuthHandler struct {
	service authService
	cookies CookieConfig
}

func NewAuthHandler(service authService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(w, r, &payload, false); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.UserData{User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(w, r, &payload, false); err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.setSession(w, pair.AccessToken, pair.AccessExp, pair.RefreshToken, pair.RefreshExp)
	writeSuccess(w, http.StatusOK, pair)
}

// Verify checks the token given in {"token": ...} and falls back to the
// access_token cookie when the body carries none.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var payload model.VerifyRequest
	if err := decodeJSON(w, r, &payload, true); err != nil {
		writeError(w, err)
		return
	}
	token := strings.TrimSpace(payload.Token)

	if token == "" {
		if cookie, err := r.Cookie(middleware.AccessTokenCookie); err == nil {
			token = strings.TrimSpace(cookie.Value)
		}
	}

	if token == "" {
		writeError(w, apierror.Unauthorized("token is required"))
		return
	}

	user, err := h.service.VerifyUser(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.RefreshTokenCookie)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		writeError(w, apierror.Unauthorized("refresh token is required"))
		return
	}

	pair, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.setSession(w, pair.AccessToken, pair.AccessExp, pair.RefreshToken, pair.RefreshExp)
	writeSuccess(w, http.StatusOK, pair)
}

// Logout only clears the cookies. Tokens already issued remain valid until
// they expire; there is no server-side session to revoke.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout()
	h.cookies.clearSession(w)
	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	user, err := h.service.GetUserByID(r.Context(), claims.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.UserData{User: user})
}
