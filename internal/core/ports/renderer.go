package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering.
// It decouples telemetry collection from presentation logic.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flushes buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called once the phases of a command are known.
	// phases: every phase in execution order
	// targets: the phases the user asked for
	OnPlanEmit(phases []string, targets []string)

	// OnTaskStart is called when a phase begins.
	// spanID: unique identifier for this phase execution
	// parentID: spanID of the enclosing span (empty if root)
	// name: phase name
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when a phase emits output.
	// data: raw bytes (may contain partial lines or ANSI sequences)
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a phase finishes. err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
