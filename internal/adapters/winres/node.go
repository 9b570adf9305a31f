package winres

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/balebuild/bale/internal/core/ports"
)

// NodeID is the unique identifier for the resource editor Graft node.
const NodeID graft.ID = "adapter.resource_editor"

func init() {
	graft.Register(graft.Node[ports.ResourceEditor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ResourceEditor, error) {
			return NewEditor(), nil
		},
	})
}
