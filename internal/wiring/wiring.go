// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/modloader/internal/adapters/config"
	_ "go.trai.ch/modloader/internal/adapters/dl"
	_ "go.trai.ch/modloader/internal/adapters/elf"
	_ "go.trai.ch/modloader/internal/adapters/fs"
	_ "go.trai.ch/modloader/internal/adapters/logger"
	_ "go.trai.ch/modloader/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "go.trai.ch/modloader/internal/app"
)
