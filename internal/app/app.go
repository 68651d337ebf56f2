// Package app implements the application layer for recipe.
package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/recipe/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader   ports.RecipeLoader
	detector ports.SettingsDetector
	driver   *pipeline.Driver
	fs       ports.FileSystem
	logger   ports.Logger
	cache    string
	stdout   io.Writer
	stderr   io.Writer
}

// New creates a new App instance.
func New(
	loader ports.RecipeLoader,
	detector ports.SettingsDetector,
	driver *pipeline.Driver,
	fs ports.FileSystem,
	logger ports.Logger,
	cache string,
) *App {
	return &App{
		loader:   loader,
		detector: detector,
		driver:   driver,
		fs:       fs,
		logger:   logger,
		cache:    cache,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// WithOutput redirects rendered phase output and reports.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// RunOptions selects the recipe and the configuration of a command.
type RunOptions struct {
	// RecipePath is a recipe file or a directory searched upwards for one.
	RecipePath string
	// Profile is an optional settings profile file.
	Profile string
	// Settings, Options and Conf hold key=value assignments from the command line.
	Settings []string
	Options  []string
	Conf     []string
	// OutputMode is one of auto, interactive or linear.
	OutputMode string
}

// configuration is everything a command needs before the first phase runs.
type configuration struct {
	recipe    *domain.Recipe
	settings  domain.Settings
	overrides map[string]string
	conf      domain.Conf
}

// prepare loads the recipe and merges settings: detected < profile < command line.
func (a *App) prepare(ctx context.Context, opts RunOptions) (*configuration, error) {
	path := opts.RecipePath
	if path == "" {
		path = "."
	}
	recipe, err := a.loader.Load(path)
	if err != nil {
		return nil, err
	}

	settings, err := a.detector.Detect(ctx)
	if err != nil {
		return nil, err
	}

	conf := domain.Conf{}
	if opts.Profile != "" {
		profile, profileErr := a.loader.LoadProfile(opts.Profile)
		if profileErr != nil {
			return nil, profileErr
		}
		if settings, err = applySettings(settings, profile.Settings); err != nil {
			return nil, zerr.With(err, "profile", opts.Profile)
		}
		if conf, err = domain.NewConf(profile.Conf); err != nil {
			return nil, zerr.With(err, "profile", opts.Profile)
		}
	}

	flagSettings, err := parseAssignments(opts.Settings)
	if err != nil {
		return nil, err
	}
	if settings, err = applySettings(settings, flagSettings); err != nil {
		return nil, err
	}

	flagConf, err := parseAssignments(opts.Conf)
	if err != nil {
		return nil, err
	}
	extra, err := domain.NewConf(flagConf)
	if err != nil {
		return nil, err
	}

	overrides, err := parseAssignments(opts.Options)
	if err != nil {
		return nil, err
	}

	return &configuration{
		recipe:    recipe,
		settings:  settings,
		overrides: overrides,
		conf:      conf.Merge(extra),
	}, nil
}

// applySettings applies values on top of base. Selecting a compiler drops
// the sub-settings of the compiler it replaces.
func applySettings(base domain.Settings, values map[string]string) (domain.Settings, error) {
	if name, ok := values[domain.SettingCompiler]; ok && name != base.Compiler.Name {
		base.Compiler = domain.Compiler{}
	}
	return base.Apply(values)
}

// parseAssignments parses "key=value" entries. Later entries win.
func parseAssignments(entries []string) (map[string]string, error) {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		k, v, ok := strings.Cut(e, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, zerr.With(domain.ErrInvalidAssignment, "value", e)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

func (a *App) cachePath(dir string) string {
	return filepath.Join(a.cache, dir)
}
