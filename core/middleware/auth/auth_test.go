package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	coreauth "bucket-browser/core/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(User(c) + "|" + SessionID(c))
	})
	return app
}

func newTokens(t *testing.T) *coreauth.Service {
	svc, err := coreauth.NewService(coreauth.Config{Username: "admin", JWTSecret: "secret", TokenTTLMinutes: 5})
	require.NoError(t, err)
	return svc
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestAuth_MissingToken(t *testing.T) {
	app := setupApp(Config{Tokens: newTokens(t)})

	status, _ := do(t, app, httptest.NewRequest("GET", "/whoami", nil))
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAuth_InvalidToken(t *testing.T) {
	app := setupApp(Config{Tokens: newTokens(t)})

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer nope")
	status, _ := do(t, app, req)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAuth_BearerToken(t *testing.T) {
	tokens := newTokens(t)
	app := setupApp(Config{Tokens: tokens})

	token, claims, err := tokens.Issue("admin")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	status, body := do(t, app, req)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "admin|"+claims.SessionID, body)
}

func TestAuth_CookieToken(t *testing.T) {
	tokens := newTokens(t)
	app := setupApp(Config{Tokens: tokens})

	token, claims, err := tokens.Issue("admin")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: coreauth.CookieName, Value: token})
	status, body := do(t, app, req)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "admin|"+claims.SessionID, body)
}

func TestAuth_Debug(t *testing.T) {
	app := setupApp(Config{Debug: true})

	status, body := do(t, app, httptest.NewRequest("GET", "/whoami", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "debug|debug", body)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer abc"))
	assert.Equal(t, "abc", BearerToken("BEARER  abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken("Bearer "))
	assert.Equal(t, "", BearerToken(""))
}
