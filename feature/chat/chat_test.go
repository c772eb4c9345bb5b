package chat

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleChat(t *testing.T) {
	app := fiber.New()
	feature := NewFeature()
	require.NoError(t, feature.Load(app))
	assert.Equal(t, "chat", feature.Name())
	assert.False(t, feature.Public())

	resp, err := app.Test(httptest.NewRequest("GET", "/chat", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Chat Bot", body["title"])
}
