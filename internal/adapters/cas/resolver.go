package cas

import (
	"context"
	"os"
	"sort"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
)

var _ ports.DependencyResolver = (*Resolver)(nil)

// Resolver binds requirements to packages recorded in a PackageStore.
type Resolver struct {
	store ports.PackageStore
}

// NewResolver creates a Resolver reading from store.
func NewResolver(store ports.PackageStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve picks, for each requirement, the highest stored version its constraint allows.
// Among packages of that version the most recently created wins. Records whose
// package folder no longer exists are ignored.
func (r *Resolver) Resolve(
	ctx context.Context,
	reqs []domain.Requirement,
) ([]domain.ResolvedRequirement, []domain.Requirement, error) {
	var (
		resolved []domain.ResolvedRequirement
		missing  []domain.Requirement
	)

	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		candidates, err := r.store.List(req.Name)
		if err != nil {
			return nil, nil, err
		}

		m := pickNewest(req, candidates)
		if m == nil {
			missing = append(missing, req)
			continue
		}
		resolved = append(resolved, domain.ResolvedRequirement{
			Requirement: req,
			Version:     m.Version,
			Prefix:      m.Path,
			Info:        m.Info,
		})
	}
	return resolved, missing, nil
}

type candidate struct {
	version  *semver.Version
	manifest *domain.PackageManifest
}

func pickNewest(req domain.Requirement, manifests []*domain.PackageManifest) *domain.PackageManifest {
	var usable []candidate
	for _, m := range manifests {
		v, err := semver.NewVersion(m.Version)
		if err != nil || !req.Allows(m.Version) {
			continue
		}
		if _, err := os.Stat(m.Path); err != nil {
			continue
		}
		usable = append(usable, candidate{version: v, manifest: m})
	}
	if len(usable) == 0 {
		return nil
	}

	sort.SliceStable(usable, func(i, j int) bool {
		if c := usable[i].version.Compare(usable[j].version); c != 0 {
			return c < 0
		}
		return usable[i].manifest.CreatedAt.Before(usable[j].manifest.CreatedAt)
	})
	return usable[len(usable)-1].manifest
}
