package handler

import (
	"net/http"
	"time"

	"go-feedback-gate/internal/middleware"
)

const refreshCookiePath = "/api/v1/auth"

type CookieConfig struct {
	Secure bool
	Domain string
}

func (c CookieConfig) set(w http.ResponseWriter, name string, value string, path string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   c.Domain,
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieConfig) clear(w http.ResponseWriter, name string, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Domain:   c.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieConfig) setSession(w http.ResponseWriter, accessToken string, accessExp time.Time, refreshToken string, refreshExp time.Time) {
	c.set(w, middleware.AccessTokenCookie, accessToken, "/", accessExp)
	c.set(w, middleware.RefreshTokenCookie, refreshToken, refreshCookiePath, refreshExp)
}

func (c CookieConfig) clearSession(w http.ResponseWriter) {
	c.clear(w, middleware.AccessTokenCookie, "/")
	c.clear(w, middleware.RefreshTokenCookie, refreshCookiePath)
}
