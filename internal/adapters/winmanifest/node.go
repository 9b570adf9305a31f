package winmanifest

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/balebuild/bale/internal/core/ports"
)

// NodeID is the unique identifier for the manifest codec Graft node.
const NodeID graft.ID = "adapter.manifest_codec"

func init() {
	graft.Register(graft.Node[ports.ManifestCodec]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ManifestCodec, error) {
			return NewCodec(), nil
		},
	})
}
