package ports

import (
	"context"
	"io"

	"go.trai.ch/recipe/internal/core/domain"
)

// Executor defines the interface for running external commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command to completion, streaming its output.
	//
	// A command that ran and exited non-zero returns a *domain.ExitError.
	// Output is passed through unmodified.
	Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error
}
