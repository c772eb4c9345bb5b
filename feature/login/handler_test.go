package login

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	coreauth "bucket-browser/core/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"
)

type recordingEnder struct {
	ended []string
}

func (r *recordingEnder) EndSession(id string) {
	r.ended = append(r.ended, id)
}

func setupTestApp(t *testing.T) (*fiber.App, *coreauth.Service, *recordingEnder) {
	hash, err := coreauth.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := coreauth.NewService(coreauth.Config{Username: "admin", PasswordHash: hash, JWTSecret: "k", TokenTTLMinutes: 10})
	require.NoError(t, err)

	ender := &recordingEnder{}
	app := fiber.New()
	feature := NewFeature(tokens, ender, zap.NewNop(), false)
	require.NoError(t, feature.Load(app))
	return app, tokens, ender
}

func login(app *fiber.App, body string) (*http.Response, error) {
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return app.Test(req)
}

func TestHandleLogin(t *testing.T) {
	app, tokens, _ := setupTestApp(t)

	resp, err := login(app, `{"username":"admin","password":"s3cret"}`)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "admin", body.User)

	claims, err := tokens.Parse(body.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == coreauth.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, body.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestHandleLogin_Rejects(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := login(app, `{"username":"admin","password":"nope"}`)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	resp, err = login(app, `{"username":"admin"}`)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = login(app, `{`)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleLogout(t *testing.T) {
	app, tokens, ender := setupTestApp(t)
	token, claims, err := tokens.Issue("admin")
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: coreauth.CookieName, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []string{claims.SessionID}, ender.ended)

	// Signing out without a valid token is harmless.
	req = httptest.NewRequest("POST", "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Len(t, ender.ended, 1)
}

func TestHandleLogout_LowercaseBearer(t *testing.T) {
	app, tokens, ender := setupTestApp(t)
	token, claims, err := tokens.Issue("admin")
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.Header.Set("Authorization", "bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []string{claims.SessionID}, ender.ended)
}
