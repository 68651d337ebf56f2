package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/recipe/internal/core/ports/mocks"
	"go.trai.ch/recipe/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

var (
	linuxGCC = domain.Settings{
		OS:        "Linux",
		Arch:      "x86_64",
		BuildType: "Release",
		Compiler:  domain.Compiler{Name: "gcc", Version: "13"},
	}
	windowsMSVC = domain.Settings{
		OS:        "Windows",
		Arch:      "x86_64",
		BuildType: "Release",
		Compiler:  domain.Compiler{Name: "msvc", Version: "193"},
	}
	fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

type harness struct {
	builder   *mocks.MockBuildSystem
	executor  *mocks.MockExecutor
	resolver  *mocks.MockDependencyResolver
	fs        *mocks.MockFileSystem
	store     *mocks.MockPackageStore
	logger    *mocks.MockLogger
	toolchain *mocks.MockGenerator
	deps      *mocks.MockGenerator
	tracer    *fakeTracer
	cache     string
	driver    *pipeline.Driver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		builder:   mocks.NewMockBuildSystem(ctrl),
		executor:  mocks.NewMockExecutor(ctrl),
		resolver:  mocks.NewMockDependencyResolver(ctrl),
		fs:        mocks.NewMockFileSystem(ctrl),
		store:     mocks.NewMockPackageStore(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		toolchain: mocks.NewMockGenerator(ctrl),
		deps:      mocks.NewMockGenerator(ctrl),
		tracer:    &fakeTracer{},
		cache:     t.TempDir(),
	}
	h.toolchain.EXPECT().Name().Return(domain.GeneratorCMakeToolchain).AnyTimes()
	h.deps.EXPECT().Name().Return(domain.GeneratorCMakeDeps).AnyTimes()

	h.driver = pipeline.NewDriver(
		h.builder,
		h.executor,
		h.resolver,
		h.fs,
		h.store,
		h.logger,
		[]ports.Generator{h.toolchain, h.deps},
		h.cache,
	)
	h.driver.SetClock(func() time.Time { return fixedNow })
	return h
}

func newRecipe(t *testing.T) *domain.Recipe {
	t.Helper()
	id, err := domain.NewIdentity(domain.IdentityFields{
		Name:    "dateclass",
		Version: "0.5.0",
		License: "MIT",
		Topics:  []string{"date"},
	})
	require.NoError(t, err)
	gtest, err := domain.ParseRequirement("googletest/1.14.0", domain.ScopeTest)
	require.NoError(t, err)

	root := t.TempDir()
	return &domain.Recipe{
		Identity:   id,
		Path:       filepath.Join(root, domain.RecipeFileName),
		Root:       root,
		Generators: []string{domain.GeneratorCMakeToolchain, domain.GeneratorCMakeDeps},
		Settings:   []string{"os", "compiler", "build_type", "arch"},
		Options: []domain.OptionDecl{
			{Name: domain.OptionShared, Default: false},
			{Name: domain.OptionPIC, Default: true},
		},
		ExportsSources: []string{"CMakeLists.txt", "src/*", "test/*"},
		MinCppStd:      domain.MinCppStd,
		Test:           domain.TestSpec{Dir: "test", Binary: "test_dateclass"},
		Package:        domain.PackageSpec{Headers: []string{"*.h"}, Libs: []string{"dateClass"}},
		PackageIDMode:  domain.PackageIDFull,
		Requires:       []domain.Requirement{gtest},
	}
}

// laidOut runs the pure phases.
func laidOut(t *testing.T, d *pipeline.Descriptor, s domain.Settings) pipeline.LaidOut {
	t.Helper()
	c, err := d.ConfigureOptions(s, nil)
	require.NoError(t, err)
	v, err := d.Validate(c)
	require.NoError(t, err)
	return d.Layout(v)
}

// generated runs the phases up to generate with no store hits and in-place sources.
func (h *harness) generated(t *testing.T, d *pipeline.Descriptor, s domain.Settings) pipeline.Generated {
	t.Helper()
	l := laidOut(t, d, s)
	h.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, nil, nil)
	h.toolchain.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(nil, nil)
	h.deps.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(nil, nil)
	g, err := d.Generate(context.Background(), l)
	require.NoError(t, err)
	return g
}

func TestDescriptor_ConfigureOptions(t *testing.T) {
	t.Run("linux keeps position independent code", func(t *testing.T) {
		h := newHarness(t)
		d := h.driver.Descriptor(newRecipe(t), domain.Conf{}, h.tracer)

		c, err := d.ConfigureOptions(linuxGCC, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"shared": false, "position_independent_code": true}, c.Options().Values())
	})

	t.Run("windows drops position independent code", func(t *testing.T) {
		h := newHarness(t)
		d := h.driver.Descriptor(newRecipe(t), domain.Conf{}, h.tracer)

		c, err := d.ConfigureOptions(windowsMSVC, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"shared": false}, c.Options().Values())
	})

	t.Run("windows fPIC override is ignored with a warning", func(t *testing.T) {
		h := newHarness(t)
		d := h.driver.Descriptor(newRecipe(t), domain.Conf{}, h.tracer)
		h.logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
			assert.Contains(t, msg, `"fPIC"`)
		})

		c, err := d.ConfigureOptions(windowsMSVC, map[string]string{"fPIC": "True"})
		require.NoError(t, err)
		assert.Equal(t, []string{"fPIC"}, c.Ignored())
		assert.False(t, c.Options().Has(domain.OptionPIC))
	})

	t.Run("unknown option", func(t *testing.T) {
		h := newHarness(t)
		d := h.driver.Descriptor(newRecipe(t), domain.Conf{}, h.tracer)

		_, err := d.ConfigureOptions(linuxGCC, map[string]string{"with_tz": "True"})
		require.ErrorIs(t, err, domain.ErrValidation)
		assert.ErrorContains(t, err, "unknown option")
	})
}

func TestDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name        string
		compiler    domain.Compiler
		errContains string
	}{
		{name: "gcc 13", compiler: domain.Compiler{Name: "gcc", Version: "13"}},
		{name: "cppstd 17", compiler: domain.Compiler{Name: "clang", Version: "16", CppStd: "17"}},
		{name: "cppstd 14", compiler: domain.Compiler{Name: "gcc", Version: "13", CppStd: "14"}, errContains: "below the required minimum"},
		{name: "old compiler", compiler: domain.Compiler{Name: "gcc", Version: "4.8"}, errContains: "below the required minimum"},
		{name: "unknown compiler", compiler: domain.Compiler{Name: "tcc", Version: "1"}, errContains: "unsupported compiler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			d := h.driver.Descriptor(newRecipe(t), domain.Conf{}, h.tracer)

			s := linuxGCC
			s.Compiler = tt.compiler
			c, err := d.ConfigureOptions(s, nil)
			require.NoError(t, err)

			_, err = d.Validate(c)
			if tt.errContains != "" {
				require.ErrorIs(t, err, domain.ErrValidation)
				assert.ErrorContains(t, err, tt.errContains)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDescriptor_PhaseOrder(t *testing.T) {
	h := newHarness(t)
	d := h.driver.Descriptor(newRecipe(t), domain.Conf{}, h.tracer)
	ctx := context.Background()

	_, err := d.Validate(pipeline.Configured{})
	require.ErrorIs(t, err, domain.ErrPhaseOrder)

	assert.Equal(t, pipeline.LaidOut{}, d.Layout(pipeline.Validated{}))

	_, err = d.Generate(ctx, pipeline.LaidOut{})
	require.ErrorIs(t, err, domain.ErrPhaseOrder)

	_, err = d.Build(ctx, pipeline.Generated{})
	require.ErrorIs(t, err, domain.ErrPhaseOrder)

	_, err = d.Package(ctx, pipeline.Built{})
	require.ErrorIs(t, err, domain.ErrPhaseOrder)

	l := laidOut(t, d, linuxGCC)
	_, err = d.Build(ctx, pipeline.Generated{LaidOut: l})
	require.ErrorIs(t, err, domain.ErrPhaseOrder, "build must not run on a tree that was never generated")

	assert.Empty(t, h.tracer.names())
}

func TestDescriptor_Layout(t *testing.T) {
	h := newHarness(t)
	r := newRecipe(t)
	d := h.driver.Descriptor(r, domain.Conf{}, h.tracer)

	l := laidOut(t, d, linuxGCC)
	assert.Equal(t, r.Root, l.Layout().Source)
	assert.Equal(t, filepath.Join(r.Root, "build", "Release"), l.Layout().Build)
	assert.Equal(t, filepath.Join(r.Root, "build", "Release", "generators"), l.Layout().Generators)
	assert.Equal(t, filepath.Join(h.cache, "package", "dateclass", "0.5.0", l.PackageID().String()), l.Layout().Package)
	assert.Equal(t, l, laidOut(t, d, linuxGCC))

	w := laidOut(t, d, windowsMSVC)
	assert.Equal(t, filepath.Join(r.Root, "build"), w.Layout().Build)
	assert.True(t, w.Layout().MultiConfig)
}

func TestDescriptor_CreateLinux(t *testing.T) {
	h := newHarness(t)
	r := newRecipe(t)
	d := h.driver.Descriptor(r, domain.Conf{}, h.tracer)
	ctx := context.Background()

	l := laidOut(t, d, linuxGCC)
	build := filepath.Join(r.Root, "build", "Release")
	staged := filepath.Join(build, "src")

	h.resolver.EXPECT().Resolve(gomock.Any(), r.Requirements()).Return(nil, r.Requirements(), nil)
	h.logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "googletest/1.14.0")
	})
	h.fs.EXPECT().Copy(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req domain.CopyRequest) ([]domain.FileDigest, error) {
			assert.Equal(t, r.Root, req.SrcRoot)
			assert.Equal(t, staged, req.DstRoot)
			assert.Equal(t, r.ExportsSources, req.Patterns)
			return []domain.FileDigest{{Path: "CMakeLists.txt", Digest: "01"}}, nil
		})
	h.toolchain.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in domain.GenerateInput) ([]domain.GeneratedFile, error) {
			assert.Equal(t, l.Layout(), in.Layout)
			assert.Equal(t, linuxGCC, in.Settings)
			return []domain.GeneratedFile{{Path: filepath.Join(in.Layout.Generators, domain.ToolchainFileName), Changed: true}}, nil
		})
	h.deps.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(
		[]domain.GeneratedFile{{Path: filepath.Join(l.Layout().Generators, domain.DepsFileName)}}, nil)

	g, err := d.Generate(ctx, l)
	require.NoError(t, err)
	assert.Len(t, g.Files(), 2)
	assert.Equal(t, staged, g.SourceDir())
	assert.Contains(t, h.tracer.span(domain.PhaseGenerate).out.String(), "recipe_toolchain.cmake written")

	req := domain.BuildRequest{
		Source:        staged,
		Build:         build,
		ToolchainFile: filepath.Join(build, "generators", domain.ToolchainFileName),
		BuildType:     "Release",
	}
	gomock.InOrder(
		h.builder.EXPECT().Configure(gomock.Any(), req, gomock.Any()).Return(nil),
		h.builder.EXPECT().Build(gomock.Any(), req, gomock.Any()).Return(nil),
		h.executor.EXPECT().Execute(gomock.Any(), domain.Command{
			Path: filepath.Join(build, "test", "test_dateclass"),
			Dir:  build,
		}, gomock.Any(), gomock.Any()).Return(nil),
	)

	b, err := d.Build(ctx, g)
	require.NoError(t, err)
	assert.True(t, b.Tested())
	assert.Equal(t, "test/test_dateclass", h.tracer.span(domain.PhaseTest).attrs["recipe.test_binary"])

	pkg := l.Layout().Package
	gomock.InOrder(
		h.fs.EXPECT().RemoveAll(pkg).Return(nil),
		h.builder.EXPECT().Install(gomock.Any(), req, pkg, gomock.Any()).Return(nil),
		h.fs.EXPECT().Copy(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req domain.CopyRequest) ([]domain.FileDigest, error) {
				assert.Equal(t, r.Root, req.SrcRoot)
				assert.Equal(t, pkg, req.DstRoot)
				assert.Equal(t, []string{"*.h"}, req.Patterns)
				assert.Equal(t, []string{domain.ManifestFileName}, req.Reserved)
				return []domain.FileDigest{{Path: "include/dateClass.h", Digest: "ab"}}, nil
			}),
		h.fs.EXPECT().WriteFile(filepath.Join(pkg, domain.ManifestFileName), gomock.Any()).DoAndReturn(
			func(_ string, data []byte) (bool, error) {
				var m domain.PackageManifest
				require.NoError(t, json.Unmarshal(data, &m))
				assert.Equal(t, "dateclass", m.Name)
				assert.Equal(t, l.PackageID(), m.PackageID)
				assert.Equal(t, []string{"dateClass"}, m.Info.Libs)
				return true, nil
			}),
		h.store.EXPECT().Put(gomock.Any()).Return(nil),
	)

	p, err := d.Package(ctx, b)
	require.NoError(t, err)

	m := p.Manifest()
	assert.Equal(t, "dateclass/0.5.0", m.Ref())
	assert.Equal(t, fixedNow, m.CreatedAt)
	assert.Equal(t, []domain.FileDigest{{Path: "include/dateClass.h", Digest: "ab"}}, m.Files)
	assert.Equal(t, map[string]bool{"shared": false, "position_independent_code": true}, m.Options)
	assert.Equal(t, "Linux", m.Settings["os"])

	assert.Equal(t, []string{domain.PhaseGenerate, domain.PhaseBuild, domain.PhaseTest, domain.PhasePackage}, h.tracer.names())
}

func TestDescriptor_BuildWindows(t *testing.T) {
	h := newHarness(t)
	r := newRecipe(t)
	r.NoCopySource = true
	d := h.driver.Descriptor(r, domain.Conf{}, h.tracer)

	g := h.generated(t, d, windowsMSVC)
	build := filepath.Join(r.Root, "build")
	assert.Equal(t, r.Root, g.SourceDir())

	h.builder.EXPECT().Configure(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req domain.BuildRequest, _ io.Writer) error {
			assert.True(t, req.MultiConfig)
			assert.Equal(t, build, req.Build)
			return nil
		})
	h.builder.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	h.executor.EXPECT().Execute(gomock.Any(), domain.Command{
		Path: filepath.Join(build, "test", "Release", "test_dateclass"),
		Dir:  build,
	}, gomock.Any(), gomock.Any()).Return(nil)

	_, err := d.Build(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, "test/Release/test_dateclass", h.tracer.span(domain.PhaseTest).attrs["recipe.test_binary"])
}

func TestDescriptor_SkipTest(t *testing.T) {
	h := newHarness(t)
	r := newRecipe(t)
	r.NoCopySource = true
	conf, err := domain.NewConf(map[string]string{domain.ConfSkipTest: "True"})
	require.NoError(t, err)
	d := h.driver.Descriptor(r, conf, h.tracer)

	g := h.generated(t, d, linuxGCC)
	h.builder.EXPECT().Configure(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	h.builder.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	h.logger.EXPECT().Info(gomock.Any())
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	b, err := d.Build(context.Background(), g)
	require.NoError(t, err)
	assert.False(t, b.Tested())
	assert.NotContains(t, h.tracer.names(), domain.PhaseTest)
}

func TestDescriptor_BuildFailures(t *testing.T) {
	t.Run("configure failure", func(t *testing.T) {
		h := newHarness(t)
		r := newRecipe(t)
		r.NoCopySource = true
		d := h.driver.Descriptor(r, domain.Conf{}, h.tracer)
		g := h.generated(t, d, linuxGCC)

		h.builder.EXPECT().Configure(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&domain.ExitError{Command: "cmake", Code: 1})

		_, err := d.Build(context.Background(), g)
		require.ErrorIs(t, err, domain.ErrBuild)
		var exitErr *domain.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 1, exitErr.Code)
		assert.Error(t, h.tracer.span(domain.PhaseBuild).err)
	})

	t.Run("test failure", func(t *testing.T) {
		h := newHarness(t)
		r := newRecipe(t)
		r.NoCopySource = true
		d := h.driver.Descriptor(r, domain.Conf{}, h.tracer)
		g := h.generated(t, d, linuxGCC)

		h.builder.EXPECT().Configure(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		h.builder.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&domain.ExitError{Command: "test_dateclass", Code: 3})

		_, err := d.Build(context.Background(), g)
		require.ErrorIs(t, err, domain.ErrTestFailure)
		assert.False(t, errors.Is(err, domain.ErrBuild))
		assert.ErrorContains(t, err, "exit status 3")
	})
}

func TestDescriptor_GenerateFailures(t *testing.T) {
	t.Run("unknown generator", func(t *testing.T) {
		h := newHarness(t)
		r := newRecipe(t)
		r.NoCopySource = true
		r.Generators = []string{"PkgConfigDeps"}
		d := h.driver.Descriptor(r, domain.Conf{}, h.tracer)
		l := laidOut(t, d, linuxGCC)
		h.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, nil, nil)

		_, err := d.Generate(context.Background(), l)
		require.ErrorIs(t, err, domain.ErrValidation)
		assert.ErrorContains(t, err, "unknown generator")
	})

	t.Run("staging failure", func(t *testing.T) {
		h := newHarness(t)
		d := h.driver.Descriptor(newRecipe(t), domain.Conf{}, h.tracer)
		l := laidOut(t, d, linuxGCC)
		h.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, nil, nil)
		h.fs.EXPECT().Copy(gomock.Any(), gomock.Any()).Return(nil, domain.ErrFileCopyFailed)

		_, err := d.Generate(context.Background(), l)
		require.ErrorIs(t, err, domain.ErrFileSystem)
		require.ErrorIs(t, err, domain.ErrFileCopyFailed)
	})
}

func TestDescriptor_PackageHeaderCopyFailure(t *testing.T) {
	h := newHarness(t)
	r := newRecipe(t)
	r.NoCopySource = true
	conf, err := domain.NewConf(map[string]string{domain.ConfSkipTest: "true"})
	require.NoError(t, err)
	d := h.driver.Descriptor(r, conf, h.tracer)

	g := h.generated(t, d, linuxGCC)
	h.builder.EXPECT().Configure(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	h.builder.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	h.logger.EXPECT().Info(gomock.Any())
	b, err := d.Build(context.Background(), g)
	require.NoError(t, err)

	h.fs.EXPECT().RemoveAll(gomock.Any()).Return(nil)
	h.builder.EXPECT().Install(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	h.fs.EXPECT().Copy(gomock.Any(), gomock.Any()).Return(nil, domain.ErrReservedPath)
	h.fs.EXPECT().WriteFile(gomock.Any(), gomock.Any()).Times(0)
	h.store.EXPECT().Put(gomock.Any()).Times(0)

	_, err = d.Package(context.Background(), b)
	require.ErrorIs(t, err, domain.ErrFileSystem)
	assert.ErrorContains(t, err, "reserved")
}

func TestDescriptor_Metadata(t *testing.T) {
	h := newHarness(t)
	r := newRecipe(t)
	d := h.driver.Descriptor(r, domain.Conf{}, h.tracer)

	reqs := d.Requirements()
	require.Len(t, reqs, 1)
	assert.Equal(t, "googletest/1.14.0", reqs[0].Ref())
	assert.Equal(t, domain.ScopeTest, reqs[0].Scope)

	info := d.PackageInfo()
	assert.Equal(t, []string{"dateClass"}, info.Libs)
	assert.Equal(t, []string{"include"}, info.IncludeDirs)
	assert.Empty(t, info.Requires)

	c, err := d.ConfigureOptions(linuxGCC, nil)
	require.NoError(t, err)
	assert.Equal(t, d.PackageID(linuxGCC, c.Options()), laidOut(t, d, linuxGCC).PackageID())
}

func TestDescriptor_Export(t *testing.T) {
	h := newHarness(t)
	r := newRecipe(t)
	d := h.driver.Descriptor(r, domain.Conf{}, h.tracer)
	dst := filepath.Join(h.cache, "export", "dateclass", "0.5.0")

	h.fs.EXPECT().Copy(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req domain.CopyRequest) ([]domain.FileDigest, error) {
			assert.Equal(t, dst, req.DstRoot)
			assert.Equal(t, []string{"recipe.yaml", "CMakeLists.txt", "src/*", "test/*"}, req.Patterns)
			return []domain.FileDigest{{Path: "recipe.yaml", Digest: "aa"}}, nil
		})
	h.fs.EXPECT().WriteFile(filepath.Join(dst, domain.ExportManifestFileName), gomock.Any()).Return(false, nil)

	m, err := d.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dateclass", m.Name)
	assert.Len(t, m.Files, 1)
	assert.Contains(t, h.tracer.span(domain.PhaseExport).out.String(), "up to date")
	assert.Equal(t, []string{"CMakeLists.txt", "src/*", "test/*"}, r.ExportsSources, "export must not modify the recipe")
}
