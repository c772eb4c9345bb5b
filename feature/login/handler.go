package login

import (
	"time"

	coreauth "bucket-browser/core/auth"
	"bucket-browser/core/logger"
	mwauth "bucket-browser/core/middleware/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionEnder drops the browsing session bound to a token.
type SessionEnder interface {
	EndSession(sessionID string)
}

// Request is the login form.
type Request struct {
	Username string `json:"username" form:"username" validate:"required,max=128"`
	Password string `json:"password" form:"password" validate:"required,max=256"`
}

// Response carries the issued session token.
type Response struct {
	Token     string    `json:"token"`
	User      string    `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Handler handles sign in and sign out.
type Handler struct {
	tokens   *coreauth.Service
	sessions SessionEnder
	validate *validator.Validate
	logger   *zap.Logger
	secure   bool
}

// NewHandler creates a new HTTP handler. secure marks the cookie HTTPS-only.
func NewHandler(tokens *coreauth.Service, sessions SessionEnder, logger *zap.Logger, secure bool) *Handler {
	return &Handler{
		tokens:   tokens,
		sessions: sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		secure:   secure,
	}
}

// RegisterRoutes registers the auth routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/auth")
	group.Post("/login", h.HandleLogin)
	group.Post("/logout", h.HandleLogout)
}

// HandleLogin signs the user in.
// @Summary Sign In
// @Description Checks the username and password and returns a session token. The token is also set as the session_token cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body Request true "Credentials"
// @Success 200 {object} Response
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 401 {object} map[string]string "Invalid username or password"
// @Router /auth/login [post]
func (h *Handler) HandleLogin(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.tokens.Authenticate(req.Username, req.Password); err != nil {
		l.Warn("Sign in rejected", zap.String("user", req.Username), zap.String("ip", c.IP()))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	token, claims, err := h.tokens.Issue(req.Username)
	if err != nil {
		l.Error("Failed to issue session token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to issue token"})
	}

	expires := claims.ExpiresAt.Time
	c.Cookie(&fiber.Cookie{
		Name:     coreauth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	l.Info("Signed in", zap.String("user", req.Username))
	return c.JSON(Response{Token: token, User: req.Username, ExpiresAt: expires})
}

// HandleLogout signs the user out.
// @Summary Sign Out
// @Description Clears the session cookie and discards the browsing session of the presented token.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *Handler) HandleLogout(c *fiber.Ctx) error {
	token := mwauth.Token(c)

	// An expired or forged token has no session to end; the cookie is cleared anyway.
	if token != "" {
		if claims, err := h.tokens.Parse(token); err == nil {
			if h.sessions != nil {
				h.sessions.EndSession(claims.SessionID)
			}
			logger.WithRayID(h.logger, c).Info("Signed out", zap.String("user", claims.Subject))
		}
	}

	c.ClearCookie(coreauth.CookieName)
	return c.JSON(fiber.Map{"status": "signed_out"})
}
