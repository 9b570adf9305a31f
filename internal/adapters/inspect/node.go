package inspect

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/balebuild/bale/internal/core/ports"
)

// NodeID is the unique identifier for the binary inspector Graft node.
const NodeID graft.ID = "adapter.binary_inspector"

func init() {
	graft.Register(graft.Node[ports.BinaryInspector]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BinaryInspector, error) {
			return NewInspector(), nil
		},
	})
}
