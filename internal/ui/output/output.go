// Package output builds the termenv outputs shared by the logger and the phase renderer.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ProfileFunc selects the color profile of an output when it is created.
type ProfileFunc func() termenv.Profile

// ColorProfile follows the terminal. NO_COLOR forces plain text.
func ColorProfile() termenv.Profile {
	if noColor() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ColorProfileANSI is the 16-color profile used for CI logs. NO_COLOR forces plain text.
func ColorProfileANSI() termenv.Profile {
	if noColor() {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// New returns an output on w, or stderr when w is nil, using ColorProfile.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return NewWithProfile(w, ColorProfile, opts...)
}

// NewWithProfile returns an output on w, or stderr when w is nil, using profile.
// Writers are always treated as terminals so the profile alone decides on color.
func NewWithProfile(w io.Writer, profile ProfileFunc, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, append(opts, termenv.WithProfile(profile()), termenv.WithTTY(true))...)
}

func noColor() bool {
	return os.Getenv("NO_COLOR") != ""
}
