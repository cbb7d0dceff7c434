package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xform/internal/adapters/logger"
	"go.trai.ch/xform/internal/core/ports"
)

// NodeID is the unique identifier for the store provider Graft node.
const NodeID graft.ID = "adapter.store_provider"

func init() {
	graft.Register(graft.Node[ports.StoreProvider]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.StoreProvider, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewProvider(log), nil
		},
	})
}
