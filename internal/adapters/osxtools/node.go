package osxtools

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/balebuild/bale/internal/adapters/logger"
	"github.com/balebuild/bale/internal/core/ports"
)

// NodeID is the unique identifier for the mach-o tools Graft node.
const NodeID graft.ID = "adapter.macho_tools"

func init() {
	graft.Register(graft.Node[ports.MachOTools]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.MachOTools, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewTools(log), nil
		},
	})
}
