package cas

import (
	"context"

	"github.com/grindlemire/graft"
)

const (
	// IndexStoreNodeID is the unique identifier for the index store node.
	IndexStoreNodeID graft.ID = "adapter.cas.index_store"
	// StateStoreNodeID is the unique identifier for the state store node.
	StateStoreNodeID graft.ID = "adapter.cas.state_store"
)

func init() {
	graft.Register(graft.Node[*IndexStore]{
		ID:        IndexStoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*IndexStore, error) {
			return NewIndexStore(), nil
		},
	})

	graft.Register(graft.Node[*StateStore]{
		ID:        StateStoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*StateStore, error) {
			return NewStateStore(), nil
		},
	})
}
