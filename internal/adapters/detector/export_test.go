package detector

import "go.trai.ch/recipe/internal/core/ports"

// NewHostDetectorFor creates a HostDetector for a fixed platform and environment.
func NewHostDetectorFor(executor ports.Executor, goos, goarch string, env map[string]string) *HostDetector {
	return &HostDetector{
		executor: executor,
		goos:     goos,
		goarch:   goarch,
		getenv:   func(k string) string { return env[k] },
	}
}
