// Package cmake drives the CMake command line as the native build system.
package cmake

import (
	"context"
	"io"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
)

// DefaultProgram is the CMake executable looked up on PATH.
const DefaultProgram = "cmake"

// BuildSystem implements ports.BuildSystem by invoking cmake through an executor.
type BuildSystem struct {
	executor ports.Executor
	program  string
}

// NewBuildSystem creates a BuildSystem running the given cmake program.
// An empty program selects DefaultProgram.
func NewBuildSystem(executor ports.Executor, program string) *BuildSystem {
	if program == "" {
		program = DefaultProgram
	}
	return &BuildSystem{executor: executor, program: program}
}

// Configure generates the native build files for req.
func (b *BuildSystem) Configure(ctx context.Context, req domain.BuildRequest, out io.Writer) error {
	return b.run(ctx, ConfigureArgs(req), out)
}

// Build compiles the configured build folder.
func (b *BuildSystem) Build(ctx context.Context, req domain.BuildRequest, out io.Writer) error {
	return b.run(ctx, BuildArgs(req), out)
}

// Install installs the build outputs into prefix.
func (b *BuildSystem) Install(ctx context.Context, req domain.BuildRequest, prefix string, out io.Writer) error {
	return b.run(ctx, InstallArgs(req, prefix), out)
}

func (b *BuildSystem) run(ctx context.Context, args []string, out io.Writer) error {
	cmd := domain.Command{Path: b.program, Args: args}
	_, _ = io.WriteString(out, "-- "+cmd.String()+"\n")
	return b.executor.Execute(ctx, cmd, out, out)
}

// ConfigureArgs returns the arguments of the configure step.
// Single-config generators get the build type at configure time.
func ConfigureArgs(req domain.BuildRequest) []string {
	var args []string
	if req.Generator != "" {
		args = append(args, "-G", req.Generator)
	}
	if req.ToolchainFile != "" {
		args = append(args, "-DCMAKE_TOOLCHAIN_FILE="+req.ToolchainFile)
	}
	if !req.MultiConfig && req.BuildType != "" {
		args = append(args, "-DCMAKE_BUILD_TYPE="+req.BuildType)
	}
	return append(args, "-S", req.Source, "-B", req.Build)
}

// BuildArgs returns the arguments of the build step.
// Multi-config generators select the build type at build time.
func BuildArgs(req domain.BuildRequest) []string {
	return withConfig([]string{"--build", req.Build}, req)
}

// InstallArgs returns the arguments of the install step.
func InstallArgs(req domain.BuildRequest, prefix string) []string {
	return withConfig([]string{"--install", req.Build, "--prefix", prefix}, req)
}

func withConfig(args []string, req domain.BuildRequest) []string {
	if req.MultiConfig && req.BuildType != "" {
		args = append(args, "--config", req.BuildType)
	}
	return args
}
