package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// CleanOptions configures the Clean method.
type CleanOptions struct {
	// RecipePath locates the recipe whose build folder is removed.
	RecipePath string
	// Build removes the build folder of the recipe.
	Build bool
	// Cache removes the package store, the packages and the exports of the local cache.
	Cache bool
}

// Clean removes build folders and local cache content.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	var errs error

	remove := func(path, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := a.fs.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", path))
			return
		}
		a.logger.Info("removed " + name)
	}

	if opts.Build {
		path := opts.RecipePath
		if path == "" {
			path = "."
		}
		recipe, err := a.loader.Load(path)
		if err != nil {
			return err
		}
		remove(domain.BuildPath(recipe.Root), "build folder")
	}

	if opts.Cache {
		remove(domain.StorePath(a.cache), "package store")
		remove(a.cachePath(domain.PackageDirName), "packages")
		remove(a.cachePath(domain.ExportDirName), "exports")
	}

	return errs
}
