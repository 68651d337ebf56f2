package toolchain

import (
	"bytes"
	"context"
	"path/filepath"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Generator = (*CMakeDeps)(nil)

// CMakeDeps writes one package config file per resolved requirement so that
// find_package locates packages from the local store, plus an index file the
// toolchain includes.
type CMakeDeps struct {
	fs ports.FileSystem
}

// NewCMakeDeps creates a CMakeDeps generator writing through fs.
func NewCMakeDeps(fs ports.FileSystem) *CMakeDeps {
	return &CMakeDeps{fs: fs}
}

// Name returns the generator name used in descriptors.
func (g *CMakeDeps) Name() string { return domain.GeneratorCMakeDeps }

type depsData struct {
	Ref  string
	Deps []configData
}

type configData struct {
	Ref         string
	Name        string
	Version     string
	Prefix      string
	Target      string
	IncludeDirs []string
	LibDirs     []string
	Libs        []libData
}

type libData struct {
	Name string
	Var  string
}

// Generate renders the index file and the per-package config files.
func (g *CMakeDeps) Generate(_ context.Context, in domain.GenerateInput) ([]domain.GeneratedFile, error) {
	data := depsData{Ref: in.Recipe.Identity.Ref()}
	for _, dep := range in.Deps {
		data.Deps = append(data.Deps, newConfigData(dep))
	}

	var buf bytes.Buffer
	if err := depsTemplate.Execute(&buf, data); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to render dependency index"), "generator", g.Name())
	}
	index, err := write(g.fs, filepath.Join(in.Layout.Generators, domain.DepsFileName), buf.Bytes())
	if err != nil {
		return nil, err
	}
	files := []domain.GeneratedFile{index}

	for _, dep := range data.Deps {
		buf.Reset()
		if err := configTemplate.Execute(&buf, dep); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to render package config"), "package", dep.Ref)
		}
		file, err := write(g.fs, filepath.Join(in.Layout.Generators, dep.Name+"-config.cmake"), buf.Bytes())
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func newConfigData(dep domain.ResolvedRequirement) configData {
	includeDirs := dep.Info.IncludeDirs
	if len(includeDirs) == 0 {
		includeDirs = []string{domain.DefaultIncludeDir}
	}
	libDirs := dep.Info.LibDirs
	if len(libDirs) == 0 {
		libDirs = []string{"lib"}
	}

	d := configData{
		Ref:     dep.Name + "/" + dep.Version,
		Name:    dep.Name,
		Version: dep.Version,
		Prefix:  filepath.ToSlash(dep.Prefix),
		Target:  dep.Name + "::" + dep.Name,
	}
	for _, dir := range includeDirs {
		d.IncludeDirs = append(d.IncludeDirs, slashJoin(dep.Prefix, dir))
	}
	for _, dir := range libDirs {
		d.LibDirs = append(d.LibDirs, slashJoin(dep.Prefix, dir))
	}
	for _, lib := range dep.Info.Libs {
		d.Libs = append(d.Libs, libData{Name: lib, Var: dep.Name + "_" + lib + "_LIBRARY"})
	}
	return d
}
