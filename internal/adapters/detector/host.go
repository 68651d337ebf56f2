package detector

import (
	"bytes"
	"context"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
)

// CompilerEnv names the environment variable selecting the C++ compiler.
const CompilerEnv = "CXX"

var osNames = map[string]string{
	"linux":   "Linux",
	"darwin":  "Macos",
	"windows": domain.OSWindows,
	"freebsd": "FreeBSD",
}

var archNames = map[string]string{
	"amd64":   "x86_64",
	"386":     "x86",
	"arm64":   "armv8",
	"arm":     "armv7",
	"ppc64le": "ppc64le",
	"s390x":   "s390x",
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// HostDetector implements ports.SettingsDetector for the machine it runs on.
type HostDetector struct {
	executor ports.Executor
	goos     string
	goarch   string
	getenv   func(string) string
}

// NewHostDetector creates a HostDetector that probes the compiler with executor.
func NewHostDetector(executor ports.Executor) *HostDetector {
	return &HostDetector{
		executor: executor,
		goos:     runtime.GOOS,
		goarch:   runtime.GOARCH,
		getenv:   os.Getenv,
	}
}

// Detect returns the host settings. The build type defaults to Release.
// A compiler that cannot be identified leaves the compiler settings empty.
func (d *HostDetector) Detect(ctx context.Context) (domain.Settings, error) {
	settings := domain.Settings{
		OS:        osNames[d.goos],
		Arch:      archNames[d.goarch],
		BuildType: domain.BuildTypeRelease,
	}

	cxx := d.getenv(CompilerEnv)
	if cxx == "" {
		if d.goos == "windows" {
			return settings, nil
		}
		cxx = "c++"
	}

	var out bytes.Buffer
	err := d.executor.Execute(ctx, domain.Command{Path: cxx, Args: []string{"--version"}}, &out, &out)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return settings, ctxErr
	}
	if err != nil {
		return settings, nil
	}

	if compiler, ok := ParseCompilerVersion(out.String()); ok {
		settings.Compiler = compiler
	}
	return settings, nil
}

// ParseCompilerVersion identifies the compiler from its --version banner.
func ParseCompilerVersion(banner string) (domain.Compiler, bool) {
	firstLine, _, _ := strings.Cut(strings.TrimSpace(banner), "\n")

	var name string
	switch {
	case strings.Contains(banner, "Apple clang"):
		name = domain.CompilerAppleClang
	case strings.Contains(banner, "clang version"):
		name = domain.CompilerClang
	case strings.Contains(firstLine, "g++"), strings.Contains(firstLine, "GCC"),
		strings.Contains(banner, "Free Software Foundation"):
		name = domain.CompilerGCC
	default:
		return domain.Compiler{}, false
	}

	raw := versionPattern.FindString(firstLine)
	if raw == "" {
		raw = versionPattern.FindString(banner)
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return domain.Compiler{}, false
	}

	version := strconv.FormatUint(v.Major(), 10)
	if name == domain.CompilerAppleClang {
		version += "." + strconv.FormatUint(v.Minor(), 10)
	}
	return domain.Compiler{Name: name, Version: version}, true
}
