package app

import (
	"context"
	"encoding/json"
	"io"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Inspect output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// InspectOptions configures the Inspect method.
type InspectOptions struct {
	RunOptions
	// Format is yaml (default) or json.
	Format string
}

// RequirementReport is one requirement in an inspect report.
type RequirementReport struct {
	Ref   string `json:"ref" yaml:"ref"`
	Scope string `json:"scope" yaml:"scope"`
}

// InspectReport describes a recipe under one configuration.
type InspectReport struct {
	Name           string              `json:"name" yaml:"name"`
	Version        string              `json:"version" yaml:"version"`
	License        string              `json:"license,omitempty" yaml:"license,omitempty"`
	Author         string              `json:"author,omitempty" yaml:"author,omitempty"`
	URL            string              `json:"url,omitempty" yaml:"url,omitempty"`
	Description    string              `json:"description,omitempty" yaml:"description,omitempty"`
	Topics         []string            `json:"topics,omitempty" yaml:"topics,omitempty"`
	Generators     []string            `json:"generators" yaml:"generators"`
	Settings       map[string]string   `json:"settings" yaml:"settings"`
	Options        map[string]bool     `json:"options" yaml:"options"`
	IgnoredOptions []string            `json:"ignored_options,omitempty" yaml:"ignored_options,omitempty"`
	Requires       []RequirementReport `json:"requires" yaml:"requires"`
	PackageInfo    domain.PackageInfo  `json:"package_info" yaml:"package_info"`
	PackageID      domain.PackageID    `json:"package_id" yaml:"package_id"`
}

// Inspect writes the recipe metadata, resolved options, requirements,
// package info and package id to stdout. No phase with side effects runs.
func (a *App) Inspect(ctx context.Context, opts InspectOptions) error {
	format := opts.Format
	if format == "" {
		format = FormatYAML
	}
	if format != FormatYAML && format != FormatJSON {
		return zerr.With(domain.ErrUnknownFormat, "format", format)
	}

	cfg, err := a.prepare(ctx, opts.RunOptions)
	if err != nil {
		return err
	}

	report, err := a.inspect(cfg)
	if err != nil {
		return err
	}
	return writeReport(a.stdout, format, report)
}

func (a *App) inspect(cfg *configuration) (*InspectReport, error) {
	options, ignored, err := domain.ResolveOptions(cfg.recipe.Options, cfg.settings, cfg.overrides)
	if err != nil {
		return nil, err
	}

	ident := cfg.recipe.Identity
	reqs := cfg.recipe.Requirements()
	requires := make([]RequirementReport, 0, len(reqs))
	for _, r := range reqs {
		requires = append(requires, RequirementReport{Ref: r.Ref(), Scope: string(r.Scope)})
	}

	return &InspectReport{
		Name:           ident.Name(),
		Version:        ident.Version(),
		License:        ident.License(),
		Author:         ident.Author(),
		URL:            ident.URL(),
		Description:    ident.Description(),
		Topics:         ident.Topics(),
		Generators:     cfg.recipe.Generators,
		Settings:       cfg.settings.Restrict(cfg.recipe.Settings),
		Options:        options.Values(),
		IgnoredOptions: ignored,
		Requires:       requires,
		PackageInfo:    cfg.recipe.PackageInfo(),
		PackageID:      cfg.recipe.PackageID(cfg.settings, options),
	}, nil
}

func writeReport(w io.Writer, format string, report *InspectReport) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
