//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-feedback-gate/internal/app"
	"go-feedback-gate/internal/config"
	"go-feedback-gate/internal/repository"
)

const testSecret = "integration-secret-0123456789abcdef"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	_, err := testDB.Pool.Exec(context.Background(), "TRUNCATE feedback_pages, users")
	require.NoError(t, err)

	cfg := &config.Config{
		RequestTimeout: 10 * time.Second,
		DatabaseURL:    databaseURL,
		JWTSecret:      testSecret,
		JWTAccessTTL:   15 * time.Minute,
		JWTRefreshTTL:  24 * time.Hour,
		BcryptCost:     4,
		CookieSecure:   false,
		CORSOrigins:    []string{"http://localhost:3000"},
	}

	h, err := app.NewHandler(cfg, testDB,
		repository.NewUserRepository(testDB.Pool),
		repository.NewFeedbackPageRepository(testDB.Pool))
	require.NoError(t, err)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server
}

// client carries its own cookie jar, standing in for one browser.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, server *httptest.Server) *client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &client{t: t, base: server.URL, http: &http.Client{Jar: jar}}
}

type apiResponse struct {
	Status  int             `json:"-"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func (c *client) do(method string, path string, body any) apiResponse {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()

	var out apiResponse
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	out.Status = resp.StatusCode
	return out
}

func (r apiResponse) decode(t *testing.T, dst any) {
	t.Helper()
	require.True(t, r.Success)
	require.NoError(t, json.Unmarshal(r.Data, dst))
}

func (c *client) register(username string, email string, password string) apiResponse {
	return c.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": username, "email": email, "password": password,
	})
}

func (c *client) login(email string, password string) apiResponse {
	return c.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": email, "password": password,
	})
}

// signedIn registers and logs in a fresh account.
func signedIn(t *testing.T, server *httptest.Server, username string, email string) *client {
	t.Helper()

	c := newClient(t, server)
	require.Equal(t, http.StatusCreated, c.register(username, email, "secret1").Status)
	require.Equal(t, http.StatusOK, c.login(email, "secret1").Status)
	return c
}

type pageBody struct {
	ID          string     `json:"id"`
	URLToken    string     `json:"url_token"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ExpiresAt   *time.Time `json:"expires_at"`
	UserID      string     `json:"user_id"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *client) createPage(body map[string]any) pageBody {
	c.t.Helper()

	resp := c.do(http.MethodPost, "/api/v1/feedback-pages", body)
	require.Equal(c.t, http.StatusCreated, resp.Status)

	var page pageBody
	resp.decode(c.t, &page)
	return page
}

func replaceDatabase(t *testing.T, raw string, name string) string {
	t.Helper()

	u, err := url.Parse(raw)
	require.NoError(t, err)
	u.Path = "/" + name
	return u.String()
}
