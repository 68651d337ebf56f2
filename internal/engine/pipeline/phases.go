package pipeline

import "go.trai.ch/recipe/internal/core/domain"

// Configured is the result of ConfigureOptions. Only a value returned by
// ConfigureOptions is accepted by Validate.
type Configured struct {
	settings domain.Settings
	options  domain.Options
	ignored  []string
	ok       bool
}

// Settings returns the settings the options were resolved for.
func (c Configured) Settings() domain.Settings { return c.settings }

// Options returns the resolved options.
func (c Configured) Options() domain.Options { return c.options }

// Ignored returns the overrides dropped because their option does not apply.
func (c Configured) Ignored() []string { return c.ignored }

// Validated is a configuration that passed validation.
type Validated struct {
	Configured
	valid bool
}

// LaidOut is a validated configuration with its folders declared.
type LaidOut struct {
	Validated
	layout domain.Layout
	id     domain.PackageID
}

// Layout returns the folders of the build.
func (l LaidOut) Layout() domain.Layout { return l.layout }

// PackageID returns the id of the binary package being built.
func (l LaidOut) PackageID() domain.PackageID { return l.id }

// Generated is a configuration whose generator files have been written.
type Generated struct {
	LaidOut
	files  []domain.GeneratedFile
	deps   []domain.ResolvedRequirement
	source string
}

// Files returns the files written by the generators.
func (g Generated) Files() []domain.GeneratedFile { return g.files }

// Deps returns the requirements bound to local packages.
func (g Generated) Deps() []domain.ResolvedRequirement { return g.deps }

// SourceDir returns the folder the native build reads sources from.
func (g Generated) SourceDir() string { return g.source }

// Built is a configuration whose native build finished and whose tests passed or were skipped.
type Built struct {
	Generated
	built  bool
	tested bool
}

// Tested reports whether the test binary ran.
func (b Built) Tested() bool { return b.tested }

// Packaged is a configuration whose package folder has been populated.
type Packaged struct {
	Built
	manifest *domain.PackageManifest
}

// Manifest returns the record of the package.
func (p Packaged) Manifest() *domain.PackageManifest { return p.manifest }
