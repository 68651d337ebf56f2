package ports

import "go.trai.ch/recipe/internal/core/domain"

// RecipeLoader defines the interface for loading package descriptors and profiles.
//
//go:generate mockgen -source=recipe_loader.go -destination=mocks/mock_recipe_loader.go -package=mocks
type RecipeLoader interface {
	// Load reads the descriptor at path. A directory is searched upwards for the
	// default descriptor file name.
	Load(path string) (*domain.Recipe, error)

	// LoadProfile reads a settings profile file.
	LoadProfile(path string) (*domain.Profile, error)
}
