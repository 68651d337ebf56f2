package ports

import (
	"context"

	"go.trai.ch/recipe/internal/core/domain"
)

// DependencyResolver binds requirements to packages available locally.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type DependencyResolver interface {
	// Resolve returns the requirements it could bind and those it could not.
	Resolve(ctx context.Context, reqs []domain.Requirement) ([]domain.ResolvedRequirement, []domain.Requirement, error)
}
