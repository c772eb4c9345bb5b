package browser

import (
	"time"

	"bucket-browser/core/audit"
	"bucket-browser/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Options tune the sessions created by the feature.
type Options struct {
	PresignTTL        time.Duration
	UploadConcurrency int
	// SessionTTL is how long an idle session is kept.
	SessionTTL time.Duration
	// Timeout bounds each storage call made on behalf of a request.
	Timeout time.Duration
	// BucketCacheTTL shares the bucket list between sessions. Zero disables it.
	BucketCacheTTL time.Duration
}

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the storage browser feature.
func NewFeature(gateway storage.Gateway, recorder audit.Recorder, logger *zap.Logger, opts Options) *Feature {
	gateway = NewCachingGateway(gateway, opts.BucketCacheTTL, opts.Timeout)
	registry := NewRegistry(func() *Session {
		return NewSession(gateway,
			WithPresignTTL(opts.PresignTTL),
			WithUploadConcurrency(opts.UploadConcurrency))
	}, opts.SessionTTL)

	svc := NewService(registry, recorder, logger)
	return &Feature{service: svc, handler: NewHandler(svc, logger, opts.Timeout)}
}

// Service exposes the session service, e.g. to end sessions on logout.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "browser"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Public reports that the browser requires authentication.
func (f *Feature) Public() bool {
	return false
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
