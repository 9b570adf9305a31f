package ports

import "context"

// ToolRunner invokes an external transformation tool (strip, upx) as a
// blocking subprocess with its output discarded.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type ToolRunner interface {
	// Run executes argv and waits for completion. A non-zero exit is
	// returned as an error; callers decide whether to propagate it.
	Run(ctx context.Context, argv []string) error
}
