package domain

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// MinCppStd is the language standard a recipe requires when it declares none.
const MinCppStd = "17"

// Compiler names with known language-standard support.
const (
	CompilerGCC        = "gcc"
	CompilerClang      = "clang"
	CompilerAppleClang = "apple-clang"
	CompilerMSVC       = "msvc"
)

type stdSupport struct {
	constraint string
	maxStd     int
}

// cppStdSupport lists, newest first, the highest standard each compiler release accepts.
// Versions follow the compiler's own numbering (msvc uses the 19x toolset numbers).
var cppStdSupport = map[string][]stdSupport{
	CompilerGCC: {
		{">= 11", 23},
		{">= 8", 20},
		{">= 5", 17},
		{">= 4.8", 14},
		{">= 4.3", 11},
	},
	CompilerClang: {
		{">= 12", 23},
		{">= 6", 20},
		{">= 3.5", 17},
		{">= 3.4", 14},
		{">= 2.1", 11},
	},
	CompilerAppleClang: {
		{">= 13", 23},
		{">= 10", 20},
		{">= 9.1", 17},
		{">= 5.1", 14},
		{">= 4", 11},
	},
	CompilerMSVC: {
		{">= 193", 23},
		{">= 192", 20},
		{">= 191", 17},
		{">= 190", 14},
	},
}

// CppStdYear converts a standard value such as "17", "gnu20" or "98" to its
// publication year so values compare in chronological order.
func CppStdYear(std string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(std, "gnu"))
	if err != nil || n < 0 || n > 99 {
		return 0, zerr.With(ErrInvalidCppStd, "cppstd", std)
	}
	if n >= 98 {
		return 1900 + n, nil
	}
	return 2000 + n, nil
}

// IsGNUExtension reports whether a standard value requests GNU extensions.
func IsGNUExtension(std string) bool {
	return strings.HasPrefix(std, "gnu")
}

// MaxCppStd returns the highest C++ standard the compiler supports, e.g. "20".
func MaxCppStd(c Compiler) (string, error) {
	table, ok := cppStdSupport[c.Name]
	if !ok {
		return "", zerr.With(ErrUnsupportedCompiler, "compiler", c.Name)
	}

	version, err := semver.NewVersion(c.Version)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, "invalid compiler version"), "compiler", c.Name)
		return "", zerr.With(err, "version", c.Version)
	}

	for _, entry := range table {
		constraint, err := semver.NewConstraint(entry.constraint)
		if err != nil {
			return "", zerr.Wrap(err, "invalid support table entry")
		}
		if constraint.Check(version) {
			return strconv.Itoa(entry.maxStd), nil
		}
	}
	return "", zerr.With(zerr.With(ErrCppStdTooLow, "compiler", c.Name), "version", c.Version)
}

// CheckMinCppStd verifies that the compiler can build code requiring minStd.
// When compiler.cppstd is set it must be at least minStd and supported by the
// compiler; otherwise the compiler's highest supported standard must reach minStd.
func CheckMinCppStd(c Compiler, minStd string) error {
	if c.Name == "" {
		return zerr.With(ErrUnsupportedCompiler, "reason", "compiler setting is not defined")
	}

	required, err := CppStdYear(minStd)
	if err != nil {
		return err
	}

	maxStd, err := MaxCppStd(c)
	if err != nil {
		return err
	}
	supported, err := CppStdYear(maxStd)
	if err != nil {
		return err
	}

	if c.CppStd != "" {
		selected, err := CppStdYear(c.CppStd)
		if err != nil {
			return err
		}
		if selected < required {
			return zerr.With(zerr.With(ErrCppStdTooLow, "cppstd", c.CppStd), "required", minStd)
		}
		if selected > supported {
			stdErr := zerr.With(ErrCppStdUnsupported, "cppstd", c.CppStd)
			stdErr = zerr.With(stdErr, "compiler", c.Name+" "+c.Version)
			return zerr.With(stdErr, "max_supported", maxStd)
		}
		return nil
	}

	if supported < required {
		stdErr := zerr.With(ErrCppStdTooLow, "compiler", c.Name+" "+c.Version)
		stdErr = zerr.With(stdErr, "max_supported", maxStd)
		return zerr.With(stdErr, "required", minStd)
	}
	return nil
}
