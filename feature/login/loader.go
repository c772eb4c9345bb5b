package login

import (
	coreauth "bucket-browser/core/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the sign in feature.
func NewFeature(tokens *coreauth.Service, sessions SessionEnder, logger *zap.Logger, secureCookie bool) *Feature {
	return &Feature{handler: NewHandler(tokens, sessions, logger, secureCookie)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "login"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Public reports that sign in is reachable without a token.
func (f *Feature) Public() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
