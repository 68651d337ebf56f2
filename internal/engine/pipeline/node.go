package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/recipe/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/recipe/internal/adapters/cmake"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/recipe/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/recipe/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/recipe/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/recipe/internal/adapters/toolchain" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline driver Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Driver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cmake.NodeID,
			shell.NodeID,
			cas.ResolverNodeID,
			fs.NodeID,
			cas.NodeID,
			logger.NodeID,
			toolchain.NodeID,
		},
		Run: runNode,
	})
}

func runNode(ctx context.Context) (*Driver, error) {
	builder, err := graft.Dep[ports.BuildSystem](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[ports.DependencyResolver](ctx)
	if err != nil {
		return nil, err
	}

	fsys, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.PackageStore](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	generators, err := graft.Dep[[]ports.Generator](ctx)
	if err != nil {
		return nil, err
	}

	return NewDriver(builder, executor, resolver, fsys, store, log, generators, domain.DefaultCachePath()), nil
}
