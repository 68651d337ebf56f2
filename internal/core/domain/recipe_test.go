package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/core/domain"
)

func newDateClassRecipe(t *testing.T) *domain.Recipe {
	t.Helper()
	id, err := domain.NewIdentity(dateClassFields())
	require.NoError(t, err)
	gtest, err := domain.ParseRequirement("googletest/1.14.0", domain.ScopeTest)
	require.NoError(t, err)

	return &domain.Recipe{
		Identity:       id,
		Root:           "/work/dateclass",
		Generators:     []string{domain.GeneratorCMakeToolchain, domain.GeneratorCMakeDeps},
		Settings:       []string{"os", "compiler", "build_type", "arch"},
		Options:        dateClassOptions,
		ExportsSources: []string{"CMakeLists.txt", "src/*", "test/*"},
		MinCppStd:      domain.MinCppStd,
		Test:           domain.TestSpec{Dir: "test", Binary: "test_dateclass"},
		Package:        domain.PackageSpec{Headers: []string{"*.h"}, Libs: []string{"dateClass"}},
		PackageIDMode:  domain.PackageIDFull,
		Requires:       []domain.Requirement{gtest},
	}
}

func TestRecipe_Requirements(t *testing.T) {
	r := newDateClassRecipe(t)

	reqs := r.Requirements()
	require.Len(t, reqs, 1)
	assert.Equal(t, "googletest", reqs[0].Name)
	assert.Equal(t, "1.14.0", reqs[0].Constraint)
	assert.Equal(t, domain.ScopeTest, reqs[0].Scope)
	assert.False(t, reqs[0].Visible())
	assert.Equal(t, "googletest/1.14.0", reqs[0].Ref())
}

func TestRecipe_PackageInfo(t *testing.T) {
	r := newDateClassRecipe(t)

	info := r.PackageInfo()
	assert.Equal(t, []string{"dateClass"}, info.Libs)
	assert.Empty(t, info.BinDirs)
	assert.NotNil(t, info.BinDirs)
	assert.Empty(t, info.LibDirs)
	assert.Equal(t, []string{"include"}, info.IncludeDirs)
	assert.Empty(t, info.Requires, "test requirements must not propagate")

	zlib, err := domain.ParseRequirement("zlib/>=1.2", domain.ScopeRuntime)
	require.NoError(t, err)
	r.Requires = append(r.Requires, zlib)
	assert.Equal(t, []string{"zlib/>=1.2"}, r.PackageInfo().Requires)
}

func TestRecipe_PackageID(t *testing.T) {
	r := newDateClassRecipe(t)
	linux := domain.Settings{OS: "Linux", Arch: "x86_64", BuildType: "Release", Compiler: domain.Compiler{Name: "gcc", Version: "13"}}
	windows := domain.Settings{OS: "Windows", Arch: "x86_64", BuildType: "Debug", Compiler: domain.Compiler{Name: "msvc", Version: "193"}}

	linuxOpts, _, err := domain.ResolveOptions(r.Options, linux, nil)
	require.NoError(t, err)
	windowsOpts, _, err := domain.ResolveOptions(r.Options, windows, nil)
	require.NoError(t, err)

	t.Run("full mode depends on configuration", func(t *testing.T) {
		a := r.PackageID(linux, linuxOpts)
		b := r.PackageID(windows, windowsOpts)
		assert.NotEqual(t, a, b)
		assert.Equal(t, a, r.PackageID(linux, linuxOpts), "package id must be stable")
		assert.Len(t, a.String(), 16)
	})

	t.Run("undeclared settings do not participate", func(t *testing.T) {
		r := newDateClassRecipe(t)
		r.Settings = []string{"os"}
		debug := linux
		debug.BuildType = "Debug"
		assert.Equal(t, r.PackageID(linux, linuxOpts), r.PackageID(debug, linuxOpts))
	})

	t.Run("clear mode ignores configuration", func(t *testing.T) {
		r := newDateClassRecipe(t)
		r.PackageIDMode = domain.PackageIDClear
		assert.Equal(t, r.PackageID(linux, linuxOpts), r.PackageID(windows, windowsOpts))
	})
}

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		ref         string
		errContains string
	}{
		{ref: "googletest/1.14.0"},
		{ref: "fmt/^10.1"},
		{ref: "googletest", errContains: "invalid requirement"},
		{ref: "/1.0", errContains: "invalid requirement"},
		{ref: "googletest/not-a-version", errContains: "invalid requirement"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			req, err := domain.ParseRequirement(tt.ref, "")
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ScopeRuntime, req.Scope)
			assert.Equal(t, tt.ref, req.Ref())
		})
	}
}

func TestRequirement_Allows(t *testing.T) {
	req, err := domain.ParseRequirement("googletest/1.14.0", domain.ScopeTest)
	require.NoError(t, err)
	assert.True(t, req.Allows("1.14.0"))
	assert.False(t, req.Allows("1.15.0"))
	assert.False(t, req.Allows("garbage"))
}

func TestLayout(t *testing.T) {
	r := newDateClassRecipe(t)
	root := filepath.FromSlash("/work/dateclass")
	cache := filepath.FromSlash("/home/dev/.recipe")
	id := domain.PackageID("0123456789abcdef")

	t.Run("single config", func(t *testing.T) {
		s := domain.Settings{OS: "Linux", BuildType: "Release"}
		l := domain.NewLayout(root, cache, s, "", r.Identity, id)
		assert.Equal(t, root, l.Source)
		assert.Equal(t, filepath.Join(root, "build", "Release"), l.Build)
		assert.Equal(t, filepath.Join(root, "build", "Release", "generators"), l.Generators)
		assert.Equal(t, filepath.Join(cache, "package", "dateclass", "0.5.0", "0123456789abcdef"), l.Package)
		assert.False(t, l.MultiConfig)
		assert.Equal(t, l, domain.NewLayout(root, cache, s, "", r.Identity, id), "layout must be idempotent")
	})

	t.Run("windows is multi config", func(t *testing.T) {
		s := domain.Settings{OS: "Windows", BuildType: "Release"}
		l := domain.NewLayout(root, cache, s, "", r.Identity, id)
		assert.Equal(t, filepath.Join(root, "build"), l.Build)
		assert.Equal(t, filepath.Join(root, "build", "generators"), l.Generators)
		assert.True(t, l.MultiConfig)
	})

	t.Run("explicit multi config generator", func(t *testing.T) {
		s := domain.Settings{OS: "Macos", BuildType: "Debug"}
		assert.True(t, domain.NewLayout(root, cache, s, "Xcode", r.Identity, id).MultiConfig)
		assert.False(t, domain.NewLayout(root, cache, s, "Ninja", r.Identity, id).MultiConfig)
	})
}

func TestTestBinaryPath(t *testing.T) {
	assert.Equal(t, "test/test_dateclass",
		domain.TestBinaryPath(domain.Settings{OS: "Linux", BuildType: "Release"}, "test", "test_dateclass"))
	assert.Equal(t, "test/Release/test_dateclass",
		domain.TestBinaryPath(domain.Settings{OS: "Windows", BuildType: "Release"}, "test", "test_dateclass"))
}

func TestCachePaths(t *testing.T) {
	r := newDateClassRecipe(t)
	cache := t.TempDir()
	t.Setenv(domain.CacheHomeEnv, cache)

	assert.Equal(t, cache, domain.DefaultCachePath())
	assert.Equal(t, filepath.Join(cache, "store"), domain.StorePath(cache))
	assert.Equal(t, filepath.Join(cache, "export", "dateclass", "0.5.0"), domain.ExportPath(cache, r.Identity))
	assert.Equal(t, filepath.Join(cache, "package", "dateclass", "0.5.0"), domain.PackagePath(cache, r.Identity))
}
