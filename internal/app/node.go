package app

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/balebuild/bale/internal/adapters/cas"
	"github.com/balebuild/bale/internal/adapters/config" //nolint:depguard // Wired in app layer
	"github.com/balebuild/bale/internal/adapters/inspect"
	"github.com/balebuild/bale/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"github.com/balebuild/bale/internal/adapters/osxtools"
	"github.com/balebuild/bale/internal/adapters/shell"
	"github.com/balebuild/bale/internal/adapters/winmanifest"
	"github.com/balebuild/bale/internal/adapters/winres"
	"github.com/balebuild/bale/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			cas.IndexStoreNodeID,
			cas.StateStoreNodeID,
			winmanifest.NodeID,
			winres.NodeID,
			osxtools.NodeID,
			inspect.NodeID,
			shell.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log, ConfigLoader: loader}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	index, err := graft.Dep[*cas.IndexStore](ctx)
	if err != nil {
		return nil, err
	}
	state, err := graft.Dep[*cas.StateStore](ctx)
	if err != nil {
		return nil, err
	}
	manifests, err := graft.Dep[ports.ManifestCodec](ctx)
	if err != nil {
		return nil, err
	}
	resources, err := graft.Dep[ports.ResourceEditor](ctx)
	if err != nil {
		return nil, err
	}
	macho, err := graft.Dep[ports.MachOTools](ctx)
	if err != nil {
		return nil, err
	}
	inspector, err := graft.Dep[ports.BinaryInspector](ctx)
	if err != nil {
		return nil, err
	}
	runner, err := graft.Dep[ports.ToolRunner](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, index, state, manifests, resources, macho, inspector, runner), nil
}
