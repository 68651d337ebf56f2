// Package progrock mirrors phase telemetry into a progrock recording.
package progrock

import (
	"context"
	"sync"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/recipe/internal/core/ports"
)

// Recorder is a ports.Renderer that records every phase as a progrock vertex
// and forwards all events to the wrapped renderer.
type Recorder struct {
	next ports.Renderer
	w    progrock.Writer
	rec  *progrock.Recorder

	mu       sync.Mutex
	vertices map[string]*progrock.VertexRecorder
}

// New wraps next with a recorder writing to an in-memory tape.
func New(next ports.Renderer) *Recorder {
	return NewRecorder(next, progrock.NewTape())
}

// NewRecorder wraps next with a recorder writing to w.
func NewRecorder(next ports.Renderer, w progrock.Writer) *Recorder {
	return &Recorder{
		next:     next,
		w:        w,
		rec:      progrock.NewRecorder(w),
		vertices: make(map[string]*progrock.VertexRecorder),
	}
}

// Start starts the wrapped renderer.
func (r *Recorder) Start(ctx context.Context) error {
	return r.next.Start(ctx)
}

// Stop marks unfinished vertices done, stops the wrapped renderer and closes the writer.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	for id, v := range r.vertices {
		v.Done(nil)
		delete(r.vertices, id)
	}
	r.mu.Unlock()

	if err := r.next.Stop(); err != nil {
		return err
	}
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Wait waits for the wrapped renderer.
func (r *Recorder) Wait() error {
	return r.next.Wait()
}

// OnPlanEmit forwards the plan.
func (r *Recorder) OnPlanEmit(phases []string, targets []string) {
	r.next.OnPlanEmit(phases, targets)
}

// OnTaskStart opens a vertex for the phase.
func (r *Recorder) OnTaskStart(spanID, parentID, name string, startTime time.Time) {
	r.mu.Lock()
	r.vertices[spanID] = r.rec.Vertex(digest.FromString(spanID), name)
	r.mu.Unlock()

	r.next.OnTaskStart(spanID, parentID, name, startTime)
}

// OnTaskLog copies phase output to the vertex stdout.
func (r *Recorder) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	if v, ok := r.vertices[spanID]; ok {
		_, _ = v.Stdout().Write(data)
	}
	r.mu.Unlock()

	r.next.OnTaskLog(spanID, data)
}

// OnTaskComplete closes the vertex of the phase.
func (r *Recorder) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	if v, ok := r.vertices[spanID]; ok {
		v.Done(err)
		delete(r.vertices, spanID)
	}
	r.mu.Unlock()

	r.next.OnTaskComplete(spanID, endTime, err)
}

// Open returns the number of phases that started and have not completed.
func (r *Recorder) Open() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.vertices)
}
