// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/xform/internal/adapters/cas"
	_ "go.trai.ch/xform/internal/adapters/config"
	_ "go.trai.ch/xform/internal/adapters/esbuild"
	_ "go.trai.ch/xform/internal/adapters/fs"
	_ "go.trai.ch/xform/internal/adapters/i18n"
	_ "go.trai.ch/xform/internal/adapters/logger"
	_ "go.trai.ch/xform/internal/adapters/shell"
	_ "go.trai.ch/xform/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/xform/internal/adapters/watcher"
	// Register engine nodes.
	_ "go.trai.ch/xform/internal/engine/flight"
	// Register app nodes.
	_ "go.trai.ch/xform/internal/app"
)
