package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/recipe/internal/adapters/detector"           //nolint:depguard // output mode selection
	"go.trai.ch/recipe/internal/adapters/linear"             //nolint:depguard // renderer selection
	"go.trai.ch/recipe/internal/adapters/telemetry"          //nolint:depguard // tracer setup
	"go.trai.ch/recipe/internal/adapters/telemetry/progrock" //nolint:depguard // interactive recording
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/recipe/internal/engine/pipeline"
	"go.trai.ch/recipe/internal/ui/output"
	"golang.org/x/sync/errgroup"
)

// phaseFunc runs the phases of a command on a bound descriptor.
type phaseFunc func(ctx context.Context, d *pipeline.Descriptor, cfg *configuration) error

// Create exports the recipe, then configures, builds, tests and packages it.
func (a *App) Create(ctx context.Context, opts RunOptions) error {
	return a.run(ctx, opts, domain.PhasePackage, func(ctx context.Context, d *pipeline.Descriptor, cfg *configuration) error {
		if _, err := d.Export(ctx); err != nil {
			return err
		}
		built, err := a.build(ctx, d, cfg)
		if err != nil {
			return err
		}
		packaged, err := d.Package(ctx, built)
		if err != nil {
			return err
		}
		m := packaged.Manifest()
		a.logger.Info(fmt.Sprintf("%s:%s created in %s", m.Ref(), m.PackageID, m.Path))
		return nil
	})
}

// Build configures, builds and tests the recipe in its own folder.
func (a *App) Build(ctx context.Context, opts RunOptions) error {
	return a.run(ctx, opts, domain.PhaseBuild, func(ctx context.Context, d *pipeline.Descriptor, cfg *configuration) error {
		built, err := a.build(ctx, d, cfg)
		if err != nil {
			return err
		}
		a.logger.Info(fmt.Sprintf("%s built in %s", d.Recipe().Identity.Ref(), built.Layout().Build))
		return nil
	})
}

// Export copies the recipe and its exported sources into the local cache.
func (a *App) Export(ctx context.Context, opts RunOptions) error {
	return a.run(ctx, opts, domain.PhaseExport, func(ctx context.Context, d *pipeline.Descriptor, _ *configuration) error {
		m, err := d.Export(ctx)
		if err != nil {
			return err
		}
		a.logger.Info(fmt.Sprintf("%s exported (%d file(s))", d.Recipe().Identity.Ref(), len(m.Files)))
		return nil
	})
}

func (a *App) build(ctx context.Context, d *pipeline.Descriptor, cfg *configuration) (pipeline.Built, error) {
	configured, err := d.ConfigureOptions(cfg.settings, cfg.overrides)
	if err != nil {
		return pipeline.Built{}, err
	}
	validated, err := d.Validate(configured)
	if err != nil {
		return pipeline.Built{}, err
	}
	generated, err := d.Generate(ctx, d.Layout(validated))
	if err != nil {
		return pipeline.Built{}, err
	}
	return d.Build(ctx, generated)
}

// plan lists the phases a command will run, in order.
func plan(target string, conf domain.Conf) []string {
	var phases []string
	if target == domain.PhaseExport || target == domain.PhasePackage {
		phases = append(phases, domain.PhaseExport)
	}
	if target == domain.PhaseExport {
		return phases
	}
	phases = append(phases, domain.PhaseGenerate, domain.PhaseBuild)
	if !conf.SkipTest() {
		phases = append(phases, domain.PhaseTest)
	}
	if target == domain.PhasePackage {
		phases = append(phases, domain.PhasePackage)
	}
	return phases
}

// run prepares the configuration, then drives fn with the renderer running alongside.
func (a *App) run(ctx context.Context, opts RunOptions, target string, fn phaseFunc) error {
	cfg, err := a.prepare(ctx, opts)
	if err != nil {
		return err
	}

	renderer := a.newRenderer(opts.OutputMode)
	tp := setupOTel(telemetry.NewBridge(renderer))
	defer func() { _ = tp.Shutdown(context.WithoutCancel(ctx)) }()
	tracer := telemetry.NewOTelTracer("recipe").WithRenderer(renderer)
	d := a.driver.Descriptor(cfg.recipe, cfg.conf, tracer)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() { _ = renderer.Stop() }()
		tracer.EmitPlan(ctx, plan(target, cfg.conf), []string{target})
		return fn(ctx, d, cfg)
	})

	return g.Wait()
}

func (a *App) newRenderer(flag string) ports.Renderer {
	mode := detector.ResolveMode(detector.DetectEnvironment(), flag)
	if mode == detector.ModeInteractive {
		return progrock.New(linear.NewRendererWithProfile(a.stdout, a.stderr, output.ColorProfile))
	}
	return linear.NewRenderer(a.stdout, a.stderr)
}

// setupOTel installs a tracer provider that reports every span to the bridge.
// The caller shuts it down once the run is over.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	otel.SetTracerProvider(tp)
	return tp
}

