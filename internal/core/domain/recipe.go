package domain

import "slices"

// Generator names a recipe can declare.
const (
	GeneratorCMakeToolchain = "CMakeToolchain"
	GeneratorCMakeDeps      = "CMakeDeps"
)

// TestSpec locates the test executable produced by the build.
type TestSpec struct {
	// Dir is the slash-separated directory of the binary relative to the build folder.
	Dir    string
	Binary string
}

// PackageSpec declares what the package phase copies and what consumers see.
type PackageSpec struct {
	// Headers are the patterns copied from the source folder into the package folder.
	Headers     []string
	Libs        []string
	BinDirs     []string
	LibDirs     []string
	IncludeDirs []string
}

// Recipe is a validated package descriptor.
type Recipe struct {
	Identity Identity
	// Path is the absolute path of the descriptor file.
	Path string
	// Root is the directory holding the descriptor and the sources.
	Root           string
	NoCopySource   bool
	Generators     []string
	Settings       []string
	Options        []OptionDecl
	ExportsSources []string
	MinCppStd      string
	Test           TestSpec
	Package        PackageSpec
	PackageIDMode  PackageIDMode
	Requires       []Requirement
}

// Requirements returns the declared requirements in declaration order.
func (r *Recipe) Requirements() []Requirement {
	return slices.Clone(r.Requires)
}

// PackageInfo describes the package to consumers. Test requirements are omitted.
func (r *Recipe) PackageInfo() PackageInfo {
	info := PackageInfo{
		Libs:        nonNil(r.Package.Libs),
		BinDirs:     nonNil(r.Package.BinDirs),
		LibDirs:     nonNil(r.Package.LibDirs),
		IncludeDirs: nonNil(r.Package.IncludeDirs),
		Requires:    []string{},
	}
	if r.Package.IncludeDirs == nil {
		info.IncludeDirs = []string{DefaultIncludeDir}
	}
	for _, req := range VisibleRequirements(r.Requires) {
		info.Requires = append(info.Requires, req.Ref())
	}
	return info
}

// PackageID computes the binary package id for the given configuration.
// Only the settings the recipe declares take part.
func (r *Recipe) PackageID(settings Settings, options Options) PackageID {
	return ComputePackageID(PackageIDInput{
		Identity: r.Identity,
		Mode:     r.PackageIDMode,
		Settings: settings.Restrict(r.Settings),
		Options:  options.Values(),
		Requires: r.Requires,
	})
}

// UsesGenerator reports whether the recipe declares the named generator.
func (r *Recipe) UsesGenerator(name string) bool {
	return slices.Contains(r.Generators, name)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
