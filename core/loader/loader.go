package loader

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature is a self-contained module that registers its own routes.
type Feature interface {
	// Name returns the feature's unique name.
	Name() string
	// IsEnabled reports whether the feature should be loaded.
	IsEnabled() bool
	// Public reports whether the routes are reachable without authentication.
	Public() bool
	// Load registers the feature's routes.
	Load(app fiber.Router) error
}

// Manager keeps the registered features in registration order.
type Manager struct {
	features []Feature
	names    map[string]struct{}
	logger   *zap.Logger
}

// NewManager creates an empty feature manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{names: make(map[string]struct{}), logger: logger}
}

// Register adds a feature. Registering the same name twice is an error.
func (m *Manager) Register(f Feature) error {
	if _, dup := m.names[f.Name()]; dup {
		return fmt.Errorf("feature %q already registered", f.Name())
	}
	m.names[f.Name()] = struct{}{}
	m.features = append(m.features, f)
	return nil
}

// Features returns the registered features.
func (m *Manager) Features() []Feature {
	return m.features
}

// LoadAll loads every enabled public feature, installs guard, then loads the
// protected features behind it. A nil guard leaves everything public.
func (m *Manager) LoadAll(app fiber.Router, guard fiber.Handler) error {
	if err := m.load(app, true); err != nil {
		return err
	}
	if guard != nil {
		app.Use(guard)
	}
	return m.load(app, false)
}

func (m *Manager) load(app fiber.Router, public bool) error {
	for _, f := range m.features {
		if f.Public() != public {
			continue
		}
		if !f.IsEnabled() {
			m.logger.Info("Feature disabled", zap.String("feature", f.Name()))
			continue
		}
		if err := f.Load(app); err != nil {
			return fmt.Errorf("loading feature %q: %w", f.Name(), err)
		}
		m.logger.Info("Feature loaded", zap.String("feature", f.Name()), zap.Bool("public", public))
	}
	return nil
}
