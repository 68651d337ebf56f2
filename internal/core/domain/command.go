package domain

import "strings"

// Command is an external process invocation.
type Command struct {
	Path string
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds additional "KEY=VALUE" entries appended to the inherited environment.
	Env []string
}

// String returns the command line for display.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// CopyRequest describes a pattern-based copy between two folders.
type CopyRequest struct {
	SrcRoot string
	DstRoot string
	// Patterns are matched against slash-separated paths relative to SrcRoot.
	// A "*" also matches path separators.
	Patterns []string
	// Excludes are directory names never descended into.
	Excludes []string
	// Reserved are destination paths, relative to DstRoot, that may not be written.
	Reserved []string
}

// BuildRequest carries what the native build system needs to configure, build and install.
type BuildRequest struct {
	Source        string
	Build         string
	ToolchainFile string
	// Generator is the native generator name. Empty selects the build system default.
	Generator   string
	BuildType   string
	MultiConfig bool
}
