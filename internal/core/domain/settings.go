package domain

import (
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Setting keys understood by recipes and profiles.
const (
	SettingOS              = "os"
	SettingArch            = "arch"
	SettingBuildType       = "build_type"
	SettingCompiler        = "compiler"
	SettingCompilerVersion = "compiler.version"
	SettingCompilerCppStd  = "compiler.cppstd"
	SettingCompilerRuntime = "compiler.runtime"
)

// OSWindows is the value of the os setting on Windows targets.
const OSWindows = "Windows"

// Build types accepted for the build_type setting.
const (
	BuildTypeDebug          = "Debug"
	BuildTypeRelease        = "Release"
	BuildTypeRelWithDebInfo = "RelWithDebInfo"
	BuildTypeMinSizeRel     = "MinSizeRel"
)

var validBuildTypes = []string{BuildTypeDebug, BuildTypeRelease, BuildTypeRelWithDebInfo, BuildTypeMinSizeRel}

// Compiler describes the C++ compiler selected for a build.
type Compiler struct {
	Name    string
	Version string
	CppStd  string
	Runtime string
}

// Settings are the platform and toolchain parameters supplied by the caller.
// They are a plain value; every phase receives its own copy.
type Settings struct {
	OS        string
	Arch      string
	BuildType string
	Compiler  Compiler
}

// IsWindows reports whether the target operating system is Windows.
func (s Settings) IsWindows() bool {
	return strings.EqualFold(s.OS, OSWindows)
}

// With returns a copy of the settings with key set to value.
func (s Settings) With(key, value string) (Settings, error) {
	switch key {
	case SettingOS:
		s.OS = value
	case SettingArch:
		s.Arch = value
	case SettingBuildType:
		if value != "" && !slices.Contains(validBuildTypes, value) {
			return s, zerr.With(ErrInvalidBuildType, "build_type", value)
		}
		s.BuildType = value
	case SettingCompiler:
		s.Compiler.Name = value
	case SettingCompilerVersion:
		s.Compiler.Version = value
	case SettingCompilerCppStd:
		s.Compiler.CppStd = value
	case SettingCompilerRuntime:
		s.Compiler.Runtime = value
	default:
		return s, zerr.With(ErrUnknownSetting, "setting", key)
	}
	return s, nil
}

// Apply returns a copy of the settings with every entry of values applied in key order.
func (s Settings) Apply(values map[string]string) (Settings, error) {
	for _, key := range slices.Sorted(maps.Keys(values)) {
		var err error
		if s, err = s.With(key, values[key]); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Values returns the non-empty settings as a flat key/value map.
func (s Settings) Values() map[string]string {
	all := map[string]string{
		SettingOS:              s.OS,
		SettingArch:            s.Arch,
		SettingBuildType:       s.BuildType,
		SettingCompiler:        s.Compiler.Name,
		SettingCompilerVersion: s.Compiler.Version,
		SettingCompilerCppStd:  s.Compiler.CppStd,
		SettingCompilerRuntime: s.Compiler.Runtime,
	}
	maps.DeleteFunc(all, func(_, v string) bool { return v == "" })
	return all
}

// Restrict returns the settings values whose top-level key is listed in keys.
// "compiler" keeps the compiler and all of its sub-settings.
func (s Settings) Restrict(keys []string) map[string]string {
	out := make(map[string]string)
	for k, v := range s.Values() {
		top, _, _ := strings.Cut(k, ".")
		if slices.Contains(keys, top) {
			out[k] = v
		}
	}
	return out
}

// IsValidSettingKey reports whether key names a top-level setting a recipe can declare.
func IsValidSettingKey(key string) bool {
	switch key {
	case SettingOS, SettingArch, SettingBuildType, SettingCompiler:
		return true
	default:
		return false
	}
}
