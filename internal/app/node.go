package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modloader/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/modloader/internal/adapters/dl"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/modloader/internal/adapters/elf"                //nolint:depguard // Wired in app layer
	"go.trai.ch/modloader/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/modloader/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/modloader/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/modloader/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			elf.NodeID,
			fs.HasherNodeID,
			dl.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(a, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	configLoader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	extractor, err := graft.Dep[*elf.Extractor](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	opener, err := graft.Dep[ports.Opener](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(configLoader, extractor, hasher, opener, telemetry, log), nil
}
