package domain

import (
	"maps"
	"slices"
	"strconv"

	"go.trai.ch/zerr"
)

// Option names declared by native library recipes.
const (
	// OptionShared selects a shared instead of a static library.
	OptionShared = "shared"
	// OptionPIC enables position-independent code. It does not exist on Windows.
	OptionPIC = "position_independent_code"
	// optionPICAlias is the short spelling accepted in recipes and on the command line.
	optionPICAlias = "fPIC"
)

// OptionDecl declares a boolean build option and its default.
type OptionDecl struct {
	Name    string
	Default bool
}

// CanonicalOptionName maps accepted aliases to their canonical option name.
func CanonicalOptionName(name string) string {
	if name == optionPICAlias {
		return OptionPIC
	}
	return name
}

// Options is the resolved, immutable set of build options for one configuration.
type Options struct {
	values map[string]bool
}

// ResolveOptions computes the options applicable on the given operating system.
// It starts from the declared defaults, drops options that do not apply to the
// platform and applies overrides. Overrides of a dropped option are returned as
// ignored; overrides of an undeclared option are an error.
func ResolveOptions(decls []OptionDecl, settings Settings, overrides map[string]string) (Options, []string, error) {
	values := make(map[string]bool, len(decls))
	for _, d := range decls {
		values[CanonicalOptionName(d.Name)] = d.Default
	}

	var removed []string
	if settings.IsWindows() {
		if _, ok := values[OptionPIC]; ok {
			delete(values, OptionPIC)
			removed = append(removed, OptionPIC)
		}
	}

	var ignored []string
	for _, raw := range slices.Sorted(maps.Keys(overrides)) {
		name := CanonicalOptionName(raw)
		if _, ok := values[name]; !ok {
			if slices.Contains(removed, name) {
				ignored = append(ignored, raw)
				continue
			}
			return Options{}, nil, zerr.With(ErrUnknownOption, "option", raw)
		}

		b, err := strconv.ParseBool(overrides[raw])
		if err != nil {
			optErr := zerr.With(zerr.Wrap(err, ErrInvalidOptionValue.Error()), "option", raw)
			return Options{}, nil, zerr.With(optErr, "value", overrides[raw])
		}
		values[name] = b
	}

	return Options{values: values}, ignored, nil
}

// Get returns the value of an option and whether it is present.
func (o Options) Get(name string) (value, ok bool) {
	value, ok = o.values[CanonicalOptionName(name)]
	return value, ok
}

// Has reports whether the option is part of the set.
func (o Options) Has(name string) bool {
	_, ok := o.values[CanonicalOptionName(name)]
	return ok
}

// Names returns the option names in sorted order.
func (o Options) Names() []string {
	return slices.Sorted(maps.Keys(o.values))
}

// Values returns a copy of the option values.
func (o Options) Values() map[string]bool {
	return maps.Clone(o.values)
}

// Len returns the number of options in the set.
func (o Options) Len() int {
	return len(o.values)
}
