package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer opens one span per pipeline phase.
type Tracer interface {
	// Start opens the span of the named phase.
	Start(ctx context.Context, name string) (context.Context, Span)
	// EmitPlan announces the phases a command will run and the phases it was asked for.
	EmitPlan(ctx context.Context, phases []string, targets []string)
}

// Span is a running phase. Bytes written to it are the phase output
// (native tool output included) and reach the renderer in order.
type Span interface {
	io.Writer
	// End closes the phase after its output has been delivered.
	End()
	// RecordError marks the phase failed. A nil err is ignored.
	RecordError(err error)
	// SetAttribute annotates the phase, e.g. with the build folder.
	SetAttribute(key string, value any)
}
