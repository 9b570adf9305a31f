// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/balebuild/bale/internal/adapters/cas"
	_ "github.com/balebuild/bale/internal/adapters/config"
	_ "github.com/balebuild/bale/internal/adapters/inspect"
	_ "github.com/balebuild/bale/internal/adapters/logger"
	_ "github.com/balebuild/bale/internal/adapters/osxtools"
	_ "github.com/balebuild/bale/internal/adapters/shell"
	_ "github.com/balebuild/bale/internal/adapters/winmanifest"
	_ "github.com/balebuild/bale/internal/adapters/winres"
	// Register app nodes.
	_ "github.com/balebuild/bale/internal/app"
)
