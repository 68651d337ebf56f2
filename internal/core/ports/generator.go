package ports

import (
	"context"

	"go.trai.ch/recipe/internal/core/domain"
)

// Generator writes the integration files a native build system reads.
//
//go:generate mockgen -source=generator.go -destination=mocks/mock_generator.go -package=mocks
type Generator interface {
	// Name returns the generator name used in descriptors, e.g. "CMakeToolchain".
	Name() string

	// Generate writes the generator's files into in.Layout.Generators.
	// Output is deterministic for a given input.
	Generate(ctx context.Context, in domain.GenerateInput) ([]domain.GeneratedFile, error)
}
