package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/recipe/internal/adapters/fs" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/recipe/internal/core/ports"
)

// NodeID is the unique identifier for the generators Graft node.
const NodeID graft.ID = "adapter.generators"

func init() {
	graft.Register(graft.Node[[]ports.Generator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID},
		Run: func(ctx context.Context) ([]ports.Generator, error) {
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return []ports.Generator{NewCMakeToolchain(fsys), NewCMakeDeps(fsys)}, nil
		},
	})
}
