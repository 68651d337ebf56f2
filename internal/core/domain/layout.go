package domain

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	// RecipeDirName is the name of the local cache directory in the user's home.
	RecipeDirName = ".recipe"

	// StoreDirName is the name of the package record store directory.
	StoreDirName = "store"

	// ExportDirName is the name of the exported sources directory.
	ExportDirName = "export"

	// PackageDirName is the name of the package output directory.
	PackageDirName = "package"

	// BuildDirName is the name of the build directory.
	BuildDirName = "build"

	// GeneratorsDirName is the name of the generated files directory inside the build folder.
	GeneratorsDirName = "generators"

	// StagedSourceDirName holds a copy of the sources when the recipe does not build in place.
	StagedSourceDirName = "src"

	// RecipeFileName is the default name of the package descriptor.
	RecipeFileName = "recipe.yaml"

	// ManifestFileName is the identity manifest written into every package folder.
	ManifestFileName = "recipeinfo.json"

	// ExportManifestFileName lists the files of an export folder and their digests.
	ExportManifestFileName = "recipeexports.json"

	// ToolchainFileName is the CMake toolchain file written by the CMakeToolchain generator.
	ToolchainFileName = "recipe_toolchain.cmake"

	// DepsFileName is the entry file written by the CMakeDeps generator.
	DepsFileName = "recipe_deps.cmake"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// CacheHomeEnv overrides the location of the local package cache.
const CacheHomeEnv = "RECIPE_HOME"

// Layout is the set of folders a build uses. All paths are absolute.
type Layout struct {
	Source     string
	Build      string
	Generators string
	Package    string
	// MultiConfig is set when the native generator holds several build types in one tree.
	MultiConfig bool
}

// IsMultiConfig reports whether the native build system generator is multi-configuration.
// Windows defaults to Visual Studio, which is multi-configuration.
func IsMultiConfig(settings Settings, generator string) bool {
	if generator == "" {
		return settings.IsWindows()
	}
	for _, g := range []string{"Visual Studio", "Xcode", "Ninja Multi-Config"} {
		if strings.Contains(generator, g) {
			return true
		}
	}
	return false
}

// NewLayout declares the folders of a build rooted at the recipe directory root.
// Packages are placed in the local cache at cache.
func NewLayout(root, cache string, settings Settings, generator string, ident Identity, id PackageID) Layout {
	multi := IsMultiConfig(settings, generator)
	build := filepath.Join(root, BuildDirName)
	if !multi && settings.BuildType != "" {
		build = filepath.Join(build, settings.BuildType)
	}
	return Layout{
		Source:      root,
		Build:       build,
		Generators:  filepath.Join(build, GeneratorsDirName),
		Package:     filepath.Join(PackagePath(cache, ident), id.String()),
		MultiConfig: multi,
	}
}

// TestBinaryPath returns the slash-separated path of the test executable relative
// to the build folder. Multi-configuration trees put it under a build type directory.
func TestBinaryPath(settings Settings, dir, binary string) string {
	if settings.IsWindows() {
		return path.Join(dir, settings.BuildType, binary)
	}
	return path.Join(dir, binary)
}

// DefaultCachePath returns the local package cache: $RECIPE_HOME if set,
// otherwise .recipe in the user's home directory.
func DefaultCachePath() string {
	if dir := os.Getenv(CacheHomeEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return RecipeDirName
	}
	return filepath.Join(home, RecipeDirName)
}

// StorePath returns the package record store of a cache.
func StorePath(cache string) string {
	return filepath.Join(cache, StoreDirName)
}

// ExportPath returns the export folder of a package.
func ExportPath(cache string, ident Identity) string {
	return filepath.Join(cache, ExportDirName, ident.Name(), ident.Version())
}

// PackagePath returns the folder holding every binary package of ident.
func PackagePath(cache string, ident Identity) string {
	return filepath.Join(cache, PackageDirName, ident.Name(), ident.Version())
}

// BuildPath returns the build folder of a recipe directory.
func BuildPath(root string) string {
	return filepath.Join(root, BuildDirName)
}
