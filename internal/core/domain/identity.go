package domain

import (
	"regexp"
	"slices"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

var validPackageNameRegex = regexp.MustCompile(`^[a-z0-9_][a-z0-9_+.-]{1,100}$`)

// IdentityFields carries the raw metadata a recipe declares about its package.
type IdentityFields struct {
	Name        string
	Version     string
	License     string
	Author      string
	URL         string
	Description string
	Topics      []string
}

// Identity is the immutable name, version and descriptive metadata of a package.
// It can only be created through NewIdentity; accessors return copies.
type Identity struct {
	name        string
	version     string
	license     string
	author      string
	url         string
	description string
	topics      []string
}

// NewIdentity validates the given fields and returns an Identity.
func NewIdentity(f IdentityFields) (Identity, error) {
	if f.Name == "" {
		return Identity{}, ErrMissingName
	}
	if !validPackageNameRegex.MatchString(f.Name) {
		return Identity{}, zerr.With(ErrInvalidName, "name", f.Name)
	}
	if _, err := semver.NewVersion(f.Version); err != nil {
		return Identity{}, zerr.With(zerr.Wrap(err, ErrInvalidVersion.Error()), "version", f.Version)
	}

	return Identity{
		name:        f.Name,
		version:     f.Version,
		license:     f.License,
		author:      f.Author,
		url:         f.URL,
		description: f.Description,
		topics:      slices.Clone(f.Topics),
	}, nil
}

// Name returns the package name.
func (i Identity) Name() string { return i.name }

// Version returns the package version as declared.
func (i Identity) Version() string { return i.version }

// License returns the declared license.
func (i Identity) License() string { return i.license }

// Author returns the declared author.
func (i Identity) Author() string { return i.author }

// URL returns the project URL.
func (i Identity) URL() string { return i.url }

// Description returns the package description.
func (i Identity) Description() string { return i.description }

// Topics returns a copy of the package topics.
func (i Identity) Topics() []string { return slices.Clone(i.topics) }

// Ref returns the package reference in "name/version" form.
func (i Identity) Ref() string { return i.name + "/" + i.version }

// Fields returns the identity as a mutable field set.
func (i Identity) Fields() IdentityFields {
	return IdentityFields{
		Name:        i.name,
		Version:     i.version,
		License:     i.license,
		Author:      i.author,
		URL:         i.url,
		Description: i.description,
		Topics:      i.Topics(),
	}
}

// Equal reports whether two identities describe the same package.
func (i Identity) Equal(other Identity) bool {
	return i.name == other.name &&
		i.version == other.version &&
		i.license == other.license &&
		i.author == other.author &&
		i.url == other.url &&
		i.description == other.description &&
		slices.Equal(i.topics, other.topics)
}
