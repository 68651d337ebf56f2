package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/adapters/cas"
	"go.trai.ch/recipe/internal/core/domain"
)

func manifest(name, version string, id domain.PackageID, created time.Time) *domain.PackageManifest {
	return &domain.PackageManifest{
		Name:      name,
		Version:   version,
		PackageID: id,
		Path:      "/cache/package/" + name + "/" + version + "/" + id.String(),
		Settings:  map[string]string{"os": "Linux"},
		Options:   map[string]bool{"shared": false},
		Info:      domain.PackageInfo{Libs: []string{name}, IncludeDirs: []string{"include"}},
		Files:     []domain.FileDigest{{Path: "include/x.h", Digest: "0123456789abcdef"}},
		CreatedAt: created.UTC().Truncate(time.Second),
	}
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	cache := t.TempDir()
	store := cas.NewStore(cache)
	m := manifest("dateclass", "0.5.0", "aaaaaaaaaaaaaaaa", time.Now())

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, store.Put(m))
		assert.FileExists(t, filepath.Join(cache, "store", "aaaaaaaaaaaaaaaa.json"))

		got, err := store.Get(m.PackageID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, m, got)
	})

	t.Run("get missing", func(t *testing.T) {
		got, err := store.Get("ffffffffffffffff")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("put replaces", func(t *testing.T) {
		updated := *m
		updated.License = "MIT"
		require.NoError(t, store.Put(&updated))

		got, err := store.Get(m.PackageID)
		require.NoError(t, err)
		assert.Equal(t, "MIT", got.License)
	})
}

func TestStore_GetCorrupt(t *testing.T) {
	t.Parallel()

	cache := t.TempDir()
	store := cas.NewStore(cache)
	require.NoError(t, os.MkdirAll(filepath.Join(cache, "store"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(cache, "store", "bad.json"), []byte("{not json"), 0o600))

	_, err := store.Get("bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal package record")

	_, err = store.List("")
	require.Error(t, err)
}

func TestStore_List(t *testing.T) {
	t.Parallel()

	store := cas.NewStore(t.TempDir())

	empty, err := store.List("dateclass")
	require.NoError(t, err)
	assert.Empty(t, empty, "missing store folder lists nothing")

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	newer := manifest("dateclass", "0.5.0", "bbbbbbbbbbbbbbbb", base.Add(time.Hour))
	older := manifest("dateclass", "0.4.0", "aaaaaaaaaaaaaaaa", base)
	other := manifest("googletest", "1.14.0", "cccccccccccccccc", base)
	for _, m := range []*domain.PackageManifest{newer, older, other} {
		require.NoError(t, store.Put(m))
	}

	got, err := store.List("dateclass")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, older.PackageID, got[0].PackageID)
	assert.Equal(t, newer.PackageID, got[1].PackageID)

	all, err := store.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
