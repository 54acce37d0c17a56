package monitor

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	monitor *Monitor
	handler *Handler
}

// NewFeature creates the sync monitor feature.
func NewFeature(m *Monitor) *Feature {
	return &Feature{monitor: m, handler: NewHandler(m)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "sync"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.monitor != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
