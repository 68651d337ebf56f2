package cmake

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/recipe/internal/adapters/shell" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/recipe/internal/core/ports"
)

// NodeID is the unique identifier for the build system Graft node.
const NodeID graft.ID = "adapter.build_system"

// ProgramEnv overrides the cmake executable.
const ProgramEnv = "RECIPE_CMAKE"

func init() {
	graft.Register(graft.Node[ports.BuildSystem]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.BuildSystem, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuildSystem(executor, os.Getenv(ProgramEnv)), nil
		},
	})
}
