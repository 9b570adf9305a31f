package ports

// BinaryInspector answers the compression-compatibility questions the
// pipeline asks before queueing an external compression command.
//
//go:generate mockgen -source=inspector.go -destination=mocks/mock_inspector.go -package=mocks
type BinaryInspector interface {
	// HasControlFlowGuard reports whether a PE binary was built with
	// Control Flow Guard. Compressing such binaries breaks them.
	HasControlFlowGuard(path string) bool

	// IsQtPlugin reports whether the file is a Qt plugin, which does not
	// survive compression either.
	IsQtPlugin(path string) bool
}
