package i18n

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the translation extractor Graft node.
const NodeID graft.ID = "adapter.analyzer.i18n"

func init() {
	graft.Register(graft.Node[*Extractor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Extractor, error) {
			return NewExtractor(), nil
		},
	})
}
