// Package pipeline drives a package recipe through its phases.
//
// Each phase takes the typed result of the phase before it, so the order
// configure_options, validate, layout, generate, build, package is enforced
// by the compiler. Zero values are rejected at runtime with ErrPhaseOrder.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
)

// sourceExcludes are never copied out of a recipe folder.
var sourceExcludes = []string{domain.RecipeDirName, domain.BuildDirName, ".git"}

// Driver holds the adapters shared by every recipe run.
type Driver struct {
	builder    ports.BuildSystem
	executor   ports.Executor
	resolver   ports.DependencyResolver
	fs         ports.FileSystem
	store      ports.PackageStore
	logger     ports.Logger
	generators map[string]ports.Generator
	cache      string
	now        func() time.Time
}

// NewDriver creates a new Driver with the given dependencies.
func NewDriver(
	builder ports.BuildSystem,
	executor ports.Executor,
	resolver ports.DependencyResolver,
	fs ports.FileSystem,
	store ports.PackageStore,
	logger ports.Logger,
	generators []ports.Generator,
	cache string,
) *Driver {
	d := &Driver{
		builder:    builder,
		executor:   executor,
		resolver:   resolver,
		fs:         fs,
		store:      store,
		logger:     logger,
		generators: make(map[string]ports.Generator, len(generators)),
		cache:      cache,
		now:        time.Now,
	}
	for _, g := range generators {
		d.generators[g.Name()] = g
	}
	return d
}

// Descriptor binds a recipe and its conf to the driver.
func (d *Driver) Descriptor(recipe *domain.Recipe, conf domain.Conf, tracer ports.Tracer) *Descriptor {
	return &Descriptor{
		Driver: d,
		recipe: recipe,
		conf:   conf,
		tracer: tracer,
	}
}

// Descriptor runs the phases of one recipe. It holds no state between phases;
// everything a phase needs travels in its input value.
type Descriptor struct {
	*Driver
	recipe *domain.Recipe
	conf   domain.Conf
	tracer ports.Tracer
}

// Recipe returns the recipe being driven.
func (d *Descriptor) Recipe() *domain.Recipe { return d.recipe }

// ConfigureOptions resolves the option set applicable to settings.
// Overrides of options that do not exist on the target platform are ignored with a warning.
func (d *Descriptor) ConfigureOptions(settings domain.Settings, overrides map[string]string) (Configured, error) {
	opts, ignored, err := domain.ResolveOptions(d.recipe.Options, settings, overrides)
	if err != nil {
		return Configured{}, errors.Join(domain.ErrValidation, err)
	}
	for _, name := range ignored {
		d.logger.Warn(fmt.Sprintf("option %q does not apply to os=%s and was ignored", name, settings.OS))
	}
	return Configured{settings: settings, options: opts, ignored: ignored, ok: true}, nil
}

// Validate checks that the configured compiler can build the recipe.
func (d *Descriptor) Validate(c Configured) (Validated, error) {
	if !c.ok {
		return Validated{}, outOfOrder(domain.PhaseValidate)
	}
	minStd := d.recipe.MinCppStd
	if minStd == "" {
		minStd = domain.MinCppStd
	}
	if err := domain.CheckMinCppStd(c.settings.Compiler, minStd); err != nil {
		return Validated{}, errors.Join(domain.ErrValidation, err)
	}
	return Validated{Configured: c, valid: true}, nil
}

// Layout declares the folders of the build. It is pure and idempotent.
func (d *Descriptor) Layout(v Validated) LaidOut {
	if !v.valid {
		return LaidOut{}
	}
	generator, _ := d.conf.Get(domain.ConfCMakeGenerator)
	id := d.recipe.PackageID(v.settings, v.options)
	return LaidOut{
		Validated: v,
		layout:    domain.NewLayout(d.recipe.Root, d.cache, v.settings, generator, d.recipe.Identity, id),
		id:        id,
	}
}

// Generate resolves the requirements and writes the declared generators' files.
func (d *Descriptor) Generate(ctx context.Context, l LaidOut) (Generated, error) {
	if !l.valid || l.layout.Build == "" {
		return Generated{}, outOfOrder(domain.PhaseGenerate)
	}

	ctx, span := d.tracer.Start(ctx, domain.PhaseGenerate)
	defer span.End()

	g, err := d.generate(ctx, l, span)
	if err != nil {
		span.RecordError(err)
		return Generated{}, err
	}
	return g, nil
}

func (d *Descriptor) generate(ctx context.Context, l LaidOut, span ports.Span) (Generated, error) {
	resolved, missing, err := d.resolver.Resolve(ctx, d.recipe.Requirements())
	if err != nil {
		return Generated{}, errors.Join(domain.ErrFileSystem, err)
	}
	for _, req := range missing {
		d.logger.Warn(fmt.Sprintf("requirement %s is not in the local store, CMake will search the system", req.Ref()))
	}

	source := l.layout.Source
	if !d.recipe.NoCopySource {
		source = filepath.Join(l.layout.Build, domain.StagedSourceDirName)
		staged, copyErr := d.fs.Copy(ctx, domain.CopyRequest{
			SrcRoot:  l.layout.Source,
			DstRoot:  source,
			Patterns: d.recipe.ExportsSources,
			Excludes: sourceExcludes,
		})
		if copyErr != nil {
			return Generated{}, errors.Join(domain.ErrFileSystem, copyErr)
		}
		_, _ = fmt.Fprintf(span, "staged %d source file(s) into %s\n", len(staged), source)
	}

	in := domain.GenerateInput{
		Recipe:   d.recipe,
		Settings: l.settings,
		Options:  l.options,
		Conf:     d.conf,
		Layout:   l.layout,
		Deps:     resolved,
	}

	var files []domain.GeneratedFile
	for _, name := range d.recipe.Generators {
		gen, ok := d.generators[name]
		if !ok {
			return Generated{}, errors.Join(domain.ErrValidation, zerr.With(domain.ErrUnknownGenerator, "generator", name))
		}
		written, genErr := gen.Generate(ctx, in)
		if genErr != nil {
			return Generated{}, errors.Join(domain.ErrFileSystem, zerr.With(genErr, "generator", name))
		}
		for _, f := range written {
			state := "unchanged"
			if f.Changed {
				state = "written"
			}
			_, _ = fmt.Fprintf(span, "%s: %s %s\n", name, filepath.Base(f.Path), state)
		}
		files = append(files, written...)
	}

	return Generated{LaidOut: l, files: files, deps: resolved, source: source}, nil
}

// Build configures and compiles the native project, then runs the test binary
// unless tools.build:skip_test is set.
func (d *Descriptor) Build(ctx context.Context, g Generated) (Built, error) {
	if !g.valid || g.source == "" {
		return Built{}, outOfOrder(domain.PhaseBuild)
	}

	if err := d.compile(ctx, g); err != nil {
		return Built{}, err
	}

	if d.conf.SkipTest() {
		d.logger.Info("skipping tests (" + domain.ConfSkipTest + ")")
		return Built{Generated: g, built: true}, nil
	}

	if err := d.test(ctx, g); err != nil {
		return Built{}, err
	}
	return Built{Generated: g, built: true, tested: true}, nil
}

func (d *Descriptor) compile(ctx context.Context, g Generated) error {
	ctx, span := d.tracer.Start(ctx, domain.PhaseBuild)
	defer span.End()

	req := d.buildRequest(g)
	if err := d.builder.Configure(ctx, req, span); err != nil {
		err = errors.Join(domain.ErrBuild, err)
		span.RecordError(err)
		return err
	}
	if err := d.builder.Build(ctx, req, span); err != nil {
		err = errors.Join(domain.ErrBuild, err)
		span.RecordError(err)
		return err
	}
	return nil
}

func (d *Descriptor) test(ctx context.Context, g Generated) error {
	ctx, span := d.tracer.Start(ctx, domain.PhaseTest)
	defer span.End()

	rel := domain.TestBinaryPath(g.settings, d.recipe.Test.Dir, d.recipe.Test.Binary)
	span.SetAttribute("recipe.test_binary", rel)

	cmd := domain.Command{
		Path: filepath.Join(g.layout.Build, filepath.FromSlash(rel)),
		Dir:  g.layout.Build,
	}
	if err := d.executor.Execute(ctx, cmd, span, span); err != nil {
		err = errors.Join(domain.ErrTestFailure, err)
		span.RecordError(err)
		return err
	}
	return nil
}

func (d *Descriptor) buildRequest(g Generated) domain.BuildRequest {
	req := domain.BuildRequest{
		Source:      g.source,
		Build:       g.layout.Build,
		BuildType:   g.settings.BuildType,
		MultiConfig: g.layout.MultiConfig,
	}
	if gen, ok := d.conf.Get(domain.ConfCMakeGenerator); ok {
		req.Generator = gen
	}
	if d.recipe.UsesGenerator(domain.GeneratorCMakeToolchain) {
		req.ToolchainFile = filepath.Join(g.layout.Generators, domain.ToolchainFileName)
	}
	return req
}

// Package installs the build into the package folder, copies the headers and
// writes the identity manifest last. The record is persisted in the package store.
func (d *Descriptor) Package(ctx context.Context, b Built) (Packaged, error) {
	if !b.built {
		return Packaged{}, outOfOrder(domain.PhasePackage)
	}

	ctx, span := d.tracer.Start(ctx, domain.PhasePackage)
	defer span.End()

	m, err := d.pack(ctx, b, span)
	if err != nil {
		span.RecordError(err)
		return Packaged{}, err
	}
	return Packaged{Built: b, manifest: m}, nil
}

func (d *Descriptor) pack(ctx context.Context, b Built, span ports.Span) (*domain.PackageManifest, error) {
	pkg := b.layout.Package
	if err := d.fs.RemoveAll(pkg); err != nil {
		return nil, errors.Join(domain.ErrFileSystem, err)
	}

	if err := d.builder.Install(ctx, d.buildRequest(b.Generated), pkg, span); err != nil {
		return nil, errors.Join(domain.ErrBuild, err)
	}

	files, err := d.fs.Copy(ctx, domain.CopyRequest{
		SrcRoot:  b.layout.Source,
		DstRoot:  pkg,
		Patterns: d.recipe.Package.Headers,
		Excludes: sourceExcludes,
		Reserved: []string{domain.ManifestFileName},
	})
	if err != nil {
		return nil, errors.Join(domain.ErrFileSystem, err)
	}
	if len(files) == 0 && len(d.recipe.Package.Headers) > 0 {
		d.logger.Warn(fmt.Sprintf("no headers matched %v in %s", d.recipe.Package.Headers, b.layout.Source))
	}
	_, _ = fmt.Fprintf(span, "copied %d header(s) into %s\n", len(files), pkg)

	ident := d.recipe.Identity
	m := &domain.PackageManifest{
		Name:        ident.Name(),
		Version:     ident.Version(),
		License:     ident.License(),
		Author:      ident.Author(),
		URL:         ident.URL(),
		Description: ident.Description(),
		Topics:      ident.Topics(),
		PackageID:   b.id,
		Path:        pkg,
		Settings:    b.settings.Restrict(d.recipe.Settings),
		Options:     b.options.Values(),
		Info:        d.recipe.PackageInfo(),
		Files:       files,
		CreatedAt:   d.now().UTC(),
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.Join(domain.ErrFileSystem, zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error()))
	}
	if _, err := d.fs.WriteFile(filepath.Join(pkg, domain.ManifestFileName), append(data, '\n')); err != nil {
		return nil, errors.Join(domain.ErrFileSystem, err)
	}

	if err := d.store.Put(m); err != nil {
		return nil, errors.Join(domain.ErrFileSystem, err)
	}
	return m, nil
}

// PackageInfo describes the package to consumers.
func (d *Descriptor) PackageInfo() domain.PackageInfo {
	return d.recipe.PackageInfo()
}

// PackageID computes the binary package id for a configuration.
func (d *Descriptor) PackageID(settings domain.Settings, options domain.Options) domain.PackageID {
	return d.recipe.PackageID(settings, options)
}

// Requirements returns the declared requirements.
func (d *Descriptor) Requirements() []domain.Requirement {
	return d.recipe.Requirements()
}

// Export copies the recipe file and its exported sources into the local export folder.
func (d *Descriptor) Export(ctx context.Context) (*domain.ExportManifest, error) {
	ctx, span := d.tracer.Start(ctx, domain.PhaseExport)
	defer span.End()

	m, err := d.export(ctx, span)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return m, nil
}

func (d *Descriptor) export(ctx context.Context, span ports.Span) (*domain.ExportManifest, error) {
	dst := domain.ExportPath(d.cache, d.recipe.Identity)

	patterns := d.recipe.ExportsSources
	if d.recipe.Path != "" {
		patterns = append([]string{filepath.Base(d.recipe.Path)}, patterns...)
	}

	files, err := d.fs.Copy(ctx, domain.CopyRequest{
		SrcRoot:  d.recipe.Root,
		DstRoot:  dst,
		Patterns: patterns,
		Excludes: sourceExcludes,
		Reserved: []string{domain.ExportManifestFileName},
	})
	if err != nil {
		return nil, errors.Join(domain.ErrFileSystem, err)
	}

	m := &domain.ExportManifest{
		Name:    d.recipe.Identity.Name(),
		Version: d.recipe.Identity.Version(),
		Files:   files,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.Join(domain.ErrFileSystem, err)
	}
	changed, err := d.fs.WriteFile(filepath.Join(dst, domain.ExportManifestFileName), append(data, '\n'))
	if err != nil {
		return nil, errors.Join(domain.ErrFileSystem, err)
	}
	if changed {
		_, _ = fmt.Fprintf(span, "exported %d file(s) to %s\n", len(files), dst)
	} else {
		_, _ = fmt.Fprintf(span, "export of %s is up to date\n", d.recipe.Identity.Ref())
	}
	return m, nil
}

func outOfOrder(phase string) error {
	return zerr.With(zerr.Wrap(domain.ErrPhaseOrder, phase), "phase", phase)
}
