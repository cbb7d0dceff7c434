package flight

import (
	"context"
	"fmt"

	"github.com/grindlemire/graft"
	"go.trai.ch/xform/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
)

// NodeID is the unique identifier for the process wide artifact flight group.
const NodeID graft.ID = "engine.flight"

func init() {
	graft.Register(graft.Node[*Group[*domain.Artifact]]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Group[*domain.Artifact], error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New[*domain.Artifact](WithObserver(ObserverFunc(func(e EventData) {
				log.Debug(fmt.Sprintf("flight %s %s", e.Event, e.Key))
			}))), nil
		},
	})
}
