package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-feedback-gate/internal/config"
	"go-feedback-gate/internal/handler"
	"go-feedback-gate/internal/metrics"
	"go-feedback-gate/internal/middleware"
	"go-feedback-gate/internal/model"
	"go-feedback-gate/pkg/apierror"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (model.AuthClaims, error) {
	if token != "valid" {
		return model.AuthClaims{}, errors.New("invalid token")
	}
	return model.AuthClaims{Identity: model.Identity{ID: "u-1"}}, nil
}

type stubPages struct{}

func (stubPages) Create(context.Context, string, model.NewFeedbackPage) (model.FeedbackPage, error) {
	return model.FeedbackPage{ID: "p-1"}, nil
}

func (stubPages) Get(_ context.Context, _ string, id string) (model.FeedbackPage, error) {
	return model.FeedbackPage{}, apierror.NotFound("feedback page not found", id)
}

func (stubPages) List(context.Context, string) ([]model.FeedbackPage, error) {
	return []model.FeedbackPage{}, nil
}

func (stubPages) Update(_ context.Context, _ string, id string, _ model.FeedbackPagePatch) (model.FeedbackPage, error) {
	return model.FeedbackPage{}, apierror.NotFound("feedback page not found", id)
}

func (stubPages) Delete(context.Context, string, string) error { return nil }

type stubGate struct{}

func (stubGate) Resolve(_ context.Context, token string) (model.FeedbackPage, error) {
	if token == "closed" {
		return model.FeedbackPage{}, apierror.Gone("feedback page has expired", "")
	}
	return model.FeedbackPage{URLToken: token, Title: "Retro"}, nil
}

func (stubGate) IsExpired(_ context.Context, token string) (bool, error) {
	return token == "closed", nil
}

type stubDB struct{}

func (stubDB) Health(context.Context) error { return nil }

func newTestRouter(t *testing.T) (http.Handler, *metrics.Metrics) {
	t.Helper()

	cfg := &config.Config{
		RequestTimeout: 5 * time.Second,
		CORSOrigins:    []string{"http://localhost:3000"},
	}
	m := metrics.New()

	return New(cfg, middleware.NewAuthMiddleware(stubValidator{}), Handlers{
		Auth:         handler.NewAuthHandler(nil, handler.CookieConfig{}),
		FeedbackPage: handler.NewFeedbackPageHandler(stubPages{}),
		Public:       handler.NewPublicHandler(stubGate{}, stubGate{}),
		Health:       handler.NewHealthHandler(stubDB{}),
		Docs:         handler.NewDocsHandler(),
	}, m), m
}

func TestRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		cookie string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"ready", http.MethodGet, "/ready", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"openapi", http.MethodGet, "/openapi.yaml", "", http.StatusOK},
		{"pages need a cookie", http.MethodGet, "/api/v1/feedback-pages", "", http.StatusUnauthorized},
		{"pages reject a bad cookie", http.MethodGet, "/api/v1/feedback-pages", "forged", http.StatusUnauthorized},
		{"pages list", http.MethodGet, "/api/v1/feedback-pages", "valid", http.StatusOK},
		{"page get", http.MethodGet, "/api/v1/feedback-pages/p-9", "valid", http.StatusNotFound},
		{"page delete", http.MethodDelete, "/api/v1/feedback-pages/p-1", "valid", http.StatusOK},
		{"me needs a cookie", http.MethodGet, "/api/v1/auth/me", "", http.StatusUnauthorized},
		{"public open", http.MethodGet, "/api/v1/resource/abc", "", http.StatusOK},
		{"public gone", http.MethodGet, "/api/v1/resource/closed", "", http.StatusGone},
		{"public expiry flag", http.MethodGet, "/api/v1/resource/closed/expired", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
		{"wrong method", http.MethodPatch, "/api/v1/feedback-pages/p-1", "valid", http.StatusMethodNotAllowed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: tc.cookie})
			}
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestAuthorizationHeaderIsNotACredential(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/feedback-pages", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMetricsExposeRoutePatterns(t *testing.T) {
	r, _ := newTestRouter(t)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/resource/secret-token-123", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "feedbackgate_http_requests_total")
	assert.Contains(t, body, `/api/v1/resource/{urlToken}`)
	assert.NotContains(t, body, "secret-token-123")
}
