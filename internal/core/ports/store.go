package ports

import "go.trai.ch/recipe/internal/core/domain"

// PackageStore persists the records of built packages.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type PackageStore interface {
	// Get retrieves the record of a package id.
	// Returns nil, nil if not found.
	Get(id domain.PackageID) (*domain.PackageManifest, error)

	// Put stores the record, replacing any record with the same package id.
	Put(m *domain.PackageManifest) error

	// List returns every stored record for the named package.
	List(name string) ([]*domain.PackageManifest, error)
}
