package ports

import (
	"context"

	"go.trai.ch/recipe/internal/core/domain"
)

// FileSystem defines the file operations the phases perform.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Copy copies the files matching req into req.DstRoot, preserving relative paths,
	// and returns the digests of the copied files in path order.
	Copy(ctx context.Context, req domain.CopyRequest) ([]domain.FileDigest, error)

	// WriteFile writes data to path unless the file already holds the same content.
	// It reports whether the file was written.
	WriteFile(path string, data []byte) (bool, error)

	// RemoveAll removes path and everything below it.
	RemoveAll(path string) error
}
