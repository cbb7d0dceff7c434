package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xform/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/xform/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/xform/internal/adapters/esbuild"            //nolint:depguard // Wired in app layer
	"go.trai.ch/xform/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/xform/internal/adapters/i18n"               //nolint:depguard // Wired in app layer
	"go.trai.ch/xform/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/xform/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"go.trai.ch/xform/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/xform/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
	"go.trai.ch/xform/internal/engine/flight"
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
			config.ResolversNodeID,
			cas.NodeID,
			fs.HasherNodeID,
			fs.ResolverNodeID,
			watcher.NodeID,
			flight.NodeID,
			progrock.NodeID,
			logger.NodeID,
			esbuild.NodeID,
			shell.NodeID,
			i18n.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.ConcreteNodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[*logger.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	resolvers, err := graft.Dep[ports.ConfigResolverProvider](ctx)
	if err != nil {
		return nil, err
	}

	stores, err := graft.Dep[ports.StoreProvider](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	inputs, err := graft.Dep[ports.InputResolver](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}

	flights, err := graft.Dep[*flight.Group[*domain.Artifact]](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	compiler, err := graft.Dep[*esbuild.Compiler](ctx)
	if err != nil {
		return nil, err
	}

	launcher, err := graft.Dep[ports.CompilerLauncher](ctx)
	if err != nil {
		return nil, err
	}

	extractor, err := graft.Dep[*i18n.Extractor](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, resolvers, stores, hasher, inputs, watchers, flights, tel, log, compiler, launcher, extractor), nil
}
