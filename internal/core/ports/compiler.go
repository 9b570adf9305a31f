package ports

import (
	"context"

	"github.com/balebuild/bale/internal/core/domain"
)

// ModuleCompiler compiles a program source module into its portable
// compiled representation.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type ModuleCompiler interface {
	// Compile compiles the module with the given fully-qualified dotted
	// name from the given source path.
	Compile(ctx context.Context, name, srcPath string) (*domain.CodeObject, error)
}
