// Package activity serves the audit trail of write operations.
package activity

import (
	"strconv"

	"bucket-browser/core/audit"
	"bucket-browser/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles audit trail requests.
type Handler struct {
	recorder audit.Recorder
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(recorder audit.Recorder, logger *zap.Logger) *Handler {
	return &Handler{recorder: recorder, logger: logger}
}

// HandleRecent lists the latest write operations.
// @Summary Recent Activity
// @Description Lists the latest uploads, folder creations and deletions, newest first.
// @Tags audit
// @Produce json
// @Param limit query int false "Maximum entries (default 50, max 500)"
// @Success 200 {array} audit.Entry
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /audit [get]
func (h *Handler) HandleRecent(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a non-negative integer"})
		}
		limit = n
	}

	entries, err := h.recorder.Recent(c.UserContext(), limit)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to read audit trail", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(entries)
}

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
	enabled bool
}

// NewFeature creates the activity feature. It is disabled when no database
// backs the recorder.
func NewFeature(recorder audit.Recorder, logger *zap.Logger) *Feature {
	_, nop := recorder.(audit.NopRecorder)
	return &Feature{handler: NewHandler(recorder, logger), enabled: recorder != nil && !nop}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "activity"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Public reports that the audit trail requires authentication.
func (f *Feature) Public() bool {
	return false
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	app.Get("/audit", f.handler.HandleRecent)
	return nil
}
