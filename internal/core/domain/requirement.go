package domain

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// Scope controls how far a requirement propagates.
type Scope string

const (
	// ScopeRuntime requirements are linked into the package and visible to consumers.
	ScopeRuntime Scope = "runtime"
	// ScopeTest requirements are only used to build and run the package tests.
	ScopeTest Scope = "test"
)

// Requirement is a dependency on another package, expressed as name/constraint.
type Requirement struct {
	Name       string
	Constraint string
	Scope      Scope
}

// ParseRequirement parses a "name/constraint" reference such as "googletest/1.14.0".
func ParseRequirement(ref string, scope Scope) (Requirement, error) {
	name, constraint, ok := strings.Cut(ref, "/")
	if !ok || name == "" || constraint == "" {
		return Requirement{}, zerr.With(ErrInvalidRequirement, "requirement", ref)
	}
	if !validPackageNameRegex.MatchString(name) {
		return Requirement{}, zerr.With(zerr.With(ErrInvalidRequirement, "requirement", ref), "name", name)
	}
	if _, err := semver.NewConstraint(constraint); err != nil {
		reqErr := zerr.Wrap(err, ErrInvalidRequirement.Error())
		return Requirement{}, zerr.With(reqErr, "requirement", ref)
	}
	if scope == "" {
		scope = ScopeRuntime
	}
	return Requirement{Name: name, Constraint: constraint, Scope: scope}, nil
}

// Ref returns the requirement in its "name/constraint" form.
func (r Requirement) Ref() string {
	return r.Name + "/" + r.Constraint
}

// Visible reports whether the requirement propagates to consumers of the package.
func (r Requirement) Visible() bool {
	return r.Scope != ScopeTest
}

// Allows reports whether version satisfies the requirement's constraint.
func (r Requirement) Allows(version string) bool {
	c, err := semver.NewConstraint(r.Constraint)
	if err != nil {
		return false
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return c.Check(v)
}

// VisibleRequirements filters reqs down to the ones that propagate to consumers.
func VisibleRequirements(reqs []Requirement) []Requirement {
	var out []Requirement
	for _, r := range reqs {
		if r.Visible() {
			out = append(out, r)
		}
	}
	return out
}

// ResolvedRequirement is a requirement bound to a concrete package in the store.
type ResolvedRequirement struct {
	Requirement
	Version string
	// Prefix is the package folder of the bound package.
	Prefix string
	// Info is the bound package's description of itself.
	Info PackageInfo
}
