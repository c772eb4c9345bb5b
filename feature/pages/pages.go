package pages

import (
	"github.com/gofiber/fiber/v2"
)

// Page is one entry of the navigation bar.
type Page struct {
	Title     string `json:"title"`
	Path      string `json:"path"`
	Icon      string `json:"icon"`
	Protected bool   `json:"protected"`
}

// Navigation is the fixed page list shown by every client.
var Navigation = []Page{
	{Title: "Home", Path: "/", Icon: "home"},
	{Title: "Cloud Storage", Path: "/storage", Icon: "cloud", Protected: true},
	{Title: "Chat Bot", Path: "/chat", Icon: "chat", Protected: true},
}

// Handler serves the home page, the navigation bar and the health check.
type Handler struct {
	appName string
	version string
}

// NewHandler creates a new HTTP handler.
func NewHandler(appName, version string) *Handler {
	return &Handler{appName: appName, version: version}
}

// RegisterRoutes registers the page routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.HandleHome)
	app.Get("/pages", h.HandlePages)
	app.Get("/health", h.HandleHealth)
}

// HandleHome returns the home page.
// @Summary Home
// @Description Returns the application name and the navigation bar.
// @Tags pages
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) HandleHome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"app":     h.appName,
		"version": h.version,
		"pages":   Navigation,
	})
}

// HandlePages returns the navigation bar entries.
// @Summary Navigation
// @Tags pages
// @Produce json
// @Success 200 {array} Page
// @Router /pages [get]
func (h *Handler) HandlePages(c *fiber.Ctx) error {
	return c.JSON(Navigation)
}

// HandleHealth reports liveness.
// @Summary Health
// @Tags pages
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
