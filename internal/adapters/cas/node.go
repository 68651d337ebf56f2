package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the package store Graft node.
	NodeID graft.ID = "adapter.package_store"
	// ResolverNodeID is the unique identifier for the dependency resolver Graft node.
	ResolverNodeID graft.ID = "adapter.dependency_resolver"
)

func init() {
	graft.Register(graft.Node[ports.PackageStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PackageStore, error) {
			return NewStore(domain.DefaultCachePath()), nil
		},
	})

	graft.Register(graft.Node[ports.DependencyResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.DependencyResolver, error) {
			store, err := graft.Dep[ports.PackageStore](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(store), nil
		},
	})
}
