package ports

import (
	"context"
	"io"

	"go.trai.ch/recipe/internal/core/domain"
)

// BuildSystem drives the native build tool.
//
//go:generate mockgen -source=build_system.go -destination=mocks/mock_build_system.go -package=mocks
type BuildSystem interface {
	// Configure generates the native build tree.
	Configure(ctx context.Context, req domain.BuildRequest, out io.Writer) error

	// Build compiles the configured tree.
	Build(ctx context.Context, req domain.BuildRequest, out io.Writer) error

	// Install copies the build artifacts into prefix.
	Install(ctx context.Context, req domain.BuildRequest, prefix string, out io.Writer) error
}
