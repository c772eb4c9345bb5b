package auth

import (
	"strings"

	coreauth "bucket-browser/core/auth"

	"github.com/gofiber/fiber/v2"
)

const (
	userKey    = "auth_user"
	sessionKey = "auth_session"

	// DebugUser is the identity assigned to every request in debug mode.
	DebugUser = "debug"
)

// Config defines the config for the auth middleware.
type Config struct {
	// Tokens parses session tokens. Required unless Debug is set.
	Tokens *coreauth.Service
	// Debug skips token validation and binds all requests to one debug session.
	Debug bool
}

// New creates a new auth middleware.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.Debug {
			c.Locals(userKey, DebugUser)
			c.Locals(sessionKey, DebugUser)
			return c.Next()
		}

		token := Token(c)
		if token == "" || cfg.Tokens == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: missing session token",
			})
		}

		claims, err := cfg.Tokens.Parse(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: invalid session token",
			})
		}

		c.Locals(userKey, claims.Subject)
		c.Locals(sessionKey, claims.SessionID)
		return c.Next()
	}
}

// Token returns the session token presented with the request: a Bearer
// Authorization header (scheme matched case-insensitively) or the session cookie.
func Token(c *fiber.Ctx) string {
	if token := BearerToken(c.Get(fiber.HeaderAuthorization)); token != "" {
		return token
	}
	return c.Cookies(coreauth.CookieName)
}

// BearerToken extracts the credentials of a Bearer Authorization header.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// User returns the authenticated username.
func User(c *fiber.Ctx) string {
	u, _ := c.Locals(userKey).(string)
	return u
}

// SessionID returns the browsing session id bound to the request's token.
func SessionID(c *fiber.Ctx) string {
	s, _ := c.Locals(sessionKey).(string)
	return s
}
