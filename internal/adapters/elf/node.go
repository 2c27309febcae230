package elf

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the ELF extractor Graft node.
const NodeID graft.ID = "adapter.elf.extractor"

func init() {
	graft.Register(graft.Node[*Extractor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Extractor, error) {
			return NewExtractor(), nil
		},
	})
}
