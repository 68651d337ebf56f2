// Package detector inspects the host: the output mode for rendering and the
// default settings for a build.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeInteractive renders with the full color profile of the terminal.
	ModeInteractive
	// ModeLinear renders with basic ANSI colors for CI logs.
	ModeLinear
)

// String returns the flag value selecting the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeInteractive:
		return "interactive"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// DetectEnvironment returns the recommended output mode.
// Output that is not a terminal, or a CI run, gets the linear mode.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeLinear
	}
	return ModeInteractive
}

// ResolveMode applies the --output-mode flag to the detected mode.
// Unknown values keep the detected mode.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "interactive":
		return ModeInteractive
	case "linear", "ci":
		return ModeLinear
	default:
		return autoDetected
	}
}
