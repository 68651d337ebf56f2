// Package cas implements the local package store and the resolver that reads it.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PackageStore = (*Store)(nil)

// Store implements ports.PackageStore using a file-per-package strategy.
// Each record is a JSON file named after its package id.
type Store struct {
	dir string
}

// NewStore creates a Store backed by the store folder of the given cache.
func NewStore(cache string) *Store {
	return &Store{dir: domain.StorePath(cache)}
}

// Get retrieves the record of a package id.
func (s *Store) Get(id domain.PackageID) (*domain.PackageManifest, error) {
	m, err := s.read(s.filename(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return m, err
}

// Put stores the record, replacing any record with the same package id.
func (s *Store) Put(m *domain.PackageManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	filename := s.filename(m.PackageID)
	tmp := filename + ".tmp"
	//nolint:gosec // Path is constructed from trusted directory and package id
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp)
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

// List returns every stored record for the named package, oldest first.
// An empty name lists all records.
func (s *Store) List(name string) ([]*domain.PackageManifest, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var out []*domain.PackageManifest
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		m, err := s.read(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if name == "" || m.Name == name {
			out = append(out, m)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) read(filename string) (*domain.PackageManifest, error) {
	//nolint:gosec // Path is constructed from trusted directory and package id
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", filename)
	}

	var m domain.PackageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", filename)
	}
	return &m, nil
}

func (s *Store) filename(id domain.PackageID) string {
	return filepath.Join(s.dir, id.String()+".json")
}
