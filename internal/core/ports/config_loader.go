package ports

import "github.com/balebuild/bale/internal/core/domain"

// ConfigLoader loads the build configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers and reads the configuration, starting from cwd.
	Load(cwd string) (*domain.BuildConfig, error)
}
