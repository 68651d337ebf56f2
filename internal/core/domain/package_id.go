package domain

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// PackageIDMode selects which inputs take part in the package id.
type PackageIDMode string

const (
	// PackageIDFull hashes identity, settings, options and runtime requirements.
	PackageIDFull PackageIDMode = "full"
	// PackageIDClear hashes the identity only, so every configuration shares one id.
	PackageIDClear PackageIDMode = "clear"
)

// PackageID identifies one binary configuration of a package.
type PackageID string

// String returns the id as a string.
func (id PackageID) String() string { return string(id) }

// PackageIDInput is everything that may contribute to a package id.
type PackageIDInput struct {
	Identity Identity
	Mode     PackageIDMode
	Settings map[string]string
	Options  map[string]bool
	Requires []Requirement
}

// ComputePackageID hashes the input into a stable hex id.
func ComputePackageID(in PackageIDInput) PackageID {
	h := xxhash.New()
	write := func(section, key, value string) {
		_, _ = h.WriteString(section)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(key)
		_, _ = h.WriteString("=")
		_, _ = h.WriteString(value)
		_, _ = h.WriteString("\n")
	}

	write("identity", "name", in.Identity.Name())
	write("identity", "version", in.Identity.Version())

	if in.Mode != PackageIDClear {
		for _, k := range slices.Sorted(maps.Keys(in.Settings)) {
			write("settings", k, in.Settings[k])
		}
		for _, k := range slices.Sorted(maps.Keys(in.Options)) {
			write("options", k, strconv.FormatBool(in.Options[k]))
		}
		for _, r := range in.Requires {
			if r.Visible() {
				write("requires", r.Name, r.Constraint)
			}
		}
	}

	return PackageID(fmt.Sprintf("%016x", h.Sum64()))
}
