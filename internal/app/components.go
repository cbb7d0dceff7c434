package app

import (
	"go.trai.ch/xform/internal/adapters/logger" //nolint:depguard // Wired in app layer
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger *logger.Logger
}
