package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xform/internal/adapters/logger"
	"go.trai.ch/xform/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the config loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// ResolversNodeID is the unique identifier for the config resolvers Graft node.
	ResolversNodeID graft.ID = "adapter.config_resolvers"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[ports.ConfigResolverProvider]{
		ID:        ResolversNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ConfigResolverProvider, error) {
			return NewResolvers(), nil
		},
	})
}
