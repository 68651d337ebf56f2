// Package toolchain renders the CMake integration files read by the native build.
package toolchain

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Generator = (*CMakeToolchain)(nil)

// CMakeToolchain writes the toolchain file passed to cmake at configure time.
type CMakeToolchain struct {
	fs ports.FileSystem
}

// NewCMakeToolchain creates a CMakeToolchain generator writing through fs.
func NewCMakeToolchain(fs ports.FileSystem) *CMakeToolchain {
	return &CMakeToolchain{fs: fs}
}

// Name returns the generator name used in descriptors.
func (g *CMakeToolchain) Name() string { return domain.GeneratorCMakeToolchain }

type toolchainData struct {
	Ref         string
	BuildType   string
	CppStd      string
	Extensions  bool
	Shared      bool
	HasPIC      bool
	PIC         bool
	MSVCRuntime string
	Prefixes    []string
}

// Generate renders the toolchain file into the generators folder.
func (g *CMakeToolchain) Generate(_ context.Context, in domain.GenerateInput) ([]domain.GeneratedFile, error) {
	data := toolchainData{
		Ref:         in.Recipe.Identity.Ref(),
		CppStd:      cppStd(in),
		Extensions:  domain.IsGNUExtension(in.Settings.Compiler.CppStd),
		MSVCRuntime: msvcRuntime(in.Settings.Compiler),
	}
	if !in.Layout.MultiConfig {
		data.BuildType = in.Settings.BuildType
	}
	data.Shared, _ = in.Options.Get(domain.OptionShared)
	data.PIC, data.HasPIC = in.Options.Get(domain.OptionPIC)
	for _, dep := range in.Deps {
		if dep.Prefix != "" {
			data.Prefixes = append(data.Prefixes, filepath.ToSlash(dep.Prefix))
		}
	}

	var buf bytes.Buffer
	if err := toolchainTemplate.Execute(&buf, data); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to render toolchain"), "generator", g.Name())
	}

	file, err := write(g.fs, filepath.Join(in.Layout.Generators, domain.ToolchainFileName), buf.Bytes())
	if err != nil {
		return nil, err
	}
	return []domain.GeneratedFile{file}, nil
}

// cppStd returns the language standard number to request. A configured
// compiler.cppstd wins over the recipe minimum.
func cppStd(in domain.GenerateInput) string {
	if std := in.Settings.Compiler.CppStd; std != "" {
		return strings.TrimPrefix(std, "gnu")
	}
	if in.Recipe.MinCppStd != "" {
		return in.Recipe.MinCppStd
	}
	return domain.MinCppStd
}

func msvcRuntime(c domain.Compiler) string {
	if c.Name != domain.CompilerMSVC {
		return ""
	}
	switch c.Runtime {
	case "static":
		return "MultiThreaded$<$<CONFIG:Debug>:Debug>"
	case "dynamic":
		return "MultiThreaded$<$<CONFIG:Debug>:Debug>DLL"
	default:
		return ""
	}
}

func write(fs ports.FileSystem, file string, data []byte) (domain.GeneratedFile, error) {
	changed, err := fs.WriteFile(file, data)
	if err != nil {
		return domain.GeneratedFile{}, err
	}
	return domain.GeneratedFile{Path: file, Changed: changed}, nil
}

// slashJoin joins a package folder and a folder relative to it for CMake.
func slashJoin(prefix, rel string) string {
	return path.Join(filepath.ToSlash(prefix), rel)
}
