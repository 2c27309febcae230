package dl

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modloader/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the dynamic loader node.
	NodeID graft.ID = "adapter.dl"
)

func init() {
	graft.Register(graft.Node[ports.Opener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Opener, error) {
			return NewOpener(), nil
		},
	})
}
