// Package config provides the recipe and profile loader.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// defaultHeaders are the package header patterns used when a recipe declares none.
var defaultHeaders = []string{"*.h"}

// Loader implements ports.RecipeLoader using YAML files.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the descriptor at path. When path is a directory the descriptor
// is searched for in it and its parents.
func (l *Loader) Load(path string) (*domain.Recipe, error) {
	recipePath, err := findRecipe(path)
	if err != nil {
		return nil, err
	}

	var file Recipefile
	if err := readAndUnmarshalYAML(recipePath, &file, domain.ErrRecipeReadFailed, domain.ErrRecipeParseFailed); err != nil {
		return nil, zerr.With(err, "path", recipePath)
	}

	recipe, err := l.toRecipe(&file)
	if err != nil {
		return nil, zerr.With(err, "path", recipePath)
	}
	recipe.Path = recipePath
	recipe.Root = filepath.Dir(recipePath)
	return recipe, nil
}

// LoadProfile reads a settings profile file.
func (l *Loader) LoadProfile(path string) (*domain.Profile, error) {
	var file Profilefile
	if err := readAndUnmarshalYAML(path, &file, domain.ErrProfileReadFailed, domain.ErrProfileParseFailed); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return &domain.Profile{
		Settings: toStrings(file.Settings),
		Conf:     toStrings(file.Conf),
	}, nil
}

func findRecipe(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrRecipeNotFound.Error()), "path", path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", zerr.With(domain.ErrRecipeNotFound, "path", abs)
	}
	if !info.IsDir() {
		return abs, nil
	}

	currentDir := abs
	for {
		candidate := filepath.Join(currentDir, domain.RecipeFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}
	return "", zerr.With(domain.ErrRecipeNotFound, "cwd", abs)
}

func (l *Loader) toRecipe(file *Recipefile) (*domain.Recipe, error) {
	ident, err := domain.NewIdentity(domain.IdentityFields{
		Name:        file.Name,
		Version:     string(file.Version),
		License:     file.License,
		Author:      file.Author,
		URL:         file.URL,
		Description: file.Description,
		Topics:      file.Topics,
	})
	if err != nil {
		return nil, err
	}

	for _, key := range file.Settings {
		if !domain.IsValidSettingKey(key) {
			return nil, zerr.With(domain.ErrUnknownSetting, "setting", key)
		}
	}

	options, err := toOptionDecls(file.Options)
	if err != nil {
		return nil, err
	}

	minStd := string(file.MinCppStd)
	if minStd == "" {
		minStd = domain.MinCppStd
	}
	if _, err := domain.CppStdYear(minStd); err != nil {
		return nil, err
	}

	mode, err := toPackageIDMode(file.PackageID)
	if err != nil {
		return nil, err
	}

	requires, err := toRequirements(file.Requires, file.TestRequires)
	if err != nil {
		return nil, err
	}

	if len(file.Generators) == 0 {
		l.Logger.Warn("recipe " + ident.Ref() + " declares no generators, cmake runs without a toolchain file")
	}

	return &domain.Recipe{
		Identity:       ident,
		NoCopySource:   file.NoCopySource,
		Generators:     file.Generators,
		Settings:       file.Settings,
		Options:        options,
		ExportsSources: file.ExportsSources,
		MinCppStd:      minStd,
		Test:           toTestSpec(file.Test, ident.Name()),
		Package:        toPackageSpec(file.Package),
		PackageIDMode:  mode,
		Requires:       requires,
	}, nil
}

// toOptionDecls converts the declared options into declarations sorted by name.
// Aliases are folded into their canonical name.
func toOptionDecls(options map[string]bool) ([]domain.OptionDecl, error) {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)

	decls := make([]domain.OptionDecl, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		canonical := domain.CanonicalOptionName(name)
		if seen[canonical] {
			return nil, zerr.With(zerr.Wrap(domain.ErrRecipeParseFailed, "option declared twice"), "option", canonical)
		}
		seen[canonical] = true
		decls = append(decls, domain.OptionDecl{Name: canonical, Default: options[name]})
	}
	return decls, nil
}

func toPackageIDMode(raw string) (domain.PackageIDMode, error) {
	switch domain.PackageIDMode(raw) {
	case "", domain.PackageIDFull:
		return domain.PackageIDFull, nil
	case domain.PackageIDClear:
		return domain.PackageIDClear, nil
	default:
		return "", zerr.With(domain.ErrInvalidPackageIDMode, "package_id", raw)
	}
}

func toRequirements(runtime, test []string) ([]domain.Requirement, error) {
	var reqs []domain.Requirement
	seen := make(map[string]bool)

	add := func(refs []string, scope domain.Scope) error {
		for _, ref := range refs {
			req, err := domain.ParseRequirement(ref, scope)
			if err != nil {
				return err
			}
			if seen[req.Name] {
				return zerr.With(domain.ErrDuplicateRequirement, "requirement", req.Name)
			}
			seen[req.Name] = true
			reqs = append(reqs, req)
		}
		return nil
	}

	if err := add(runtime, domain.ScopeRuntime); err != nil {
		return nil, err
	}
	if err := add(test, domain.ScopeTest); err != nil {
		return nil, err
	}
	return reqs, nil
}

func toTestSpec(dto *TestDTO, name string) domain.TestSpec {
	spec := domain.TestSpec{Dir: "test", Binary: "test_" + name}
	if dto == nil {
		return spec
	}
	if dto.Dir != "" {
		spec.Dir = filepath.ToSlash(dto.Dir)
	}
	if dto.Binary != "" {
		spec.Binary = dto.Binary
	}
	return spec
}

func toPackageSpec(dto *PackageDTO) domain.PackageSpec {
	spec := domain.PackageSpec{Headers: slices.Clone(defaultHeaders)}
	if dto == nil {
		return spec
	}
	if dto.Headers != nil {
		spec.Headers = *dto.Headers
	}
	spec.Libs = dto.Libs
	spec.BinDirs = dto.BinDirs
	spec.LibDirs = dto.LibDirs
	if dto.IncludeDirs != nil {
		spec.IncludeDirs = *dto.IncludeDirs
	}
	return spec
}

// readAndUnmarshalYAML reads a YAML file and strictly unmarshals it into the target struct.
// An empty file leaves target untouched.
func readAndUnmarshalYAML[T any](path string, target *T, readErr, parseErr error) error {
	// #nosec G304 -- path is validated by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.Wrap(err, readErr.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, parseErr.Error())
	}
	return nil
}
