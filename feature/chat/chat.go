package chat

import "github.com/gofiber/fiber/v2"

// Feature is the placeholder chat bot page.
type Feature struct{}

// NewFeature creates the chat feature.
func NewFeature() *Feature {
	return &Feature{}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "chat"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Public reports that the chat page requires authentication.
func (f *Feature) Public() bool {
	return false
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	app.Get("/chat", HandleChat)
	return nil
}

// HandleChat returns the chat bot page.
// @Summary Chat Bot
// @Description Placeholder page; no bot is wired yet.
// @Tags chat
// @Produce json
// @Success 200 {object} map[string]string
// @Router /chat [get]
func HandleChat(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"title":   "Chat Bot",
		"message": "This is the chat bot page.",
	})
}
