package pipeline_test

import (
	"bytes"
	"context"
	"sync"

	"go.trai.ch/recipe/internal/core/ports"
)

// fakeTracer records spans and their output.
type fakeTracer struct {
	mu    sync.Mutex
	spans []*fakeSpan
}

func (t *fakeTracer) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := &fakeSpan{name: name}
	t.spans = append(t.spans, s)
	return ctx, s
}

func (t *fakeTracer) EmitPlan(_ context.Context, _ []string, _ []string) {}

func (t *fakeTracer) names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.spans))
	for i, s := range t.spans {
		out[i] = s.name
	}
	return out
}

func (t *fakeTracer) span(name string) *fakeSpan {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range t.spans {
		if s.name == name {
			return s
		}
	}
	return nil
}

type fakeSpan struct {
	name  string
	out   bytes.Buffer
	err   error
	ended bool
	attrs map[string]any
}

func (s *fakeSpan) Write(p []byte) (int, error) { return s.out.Write(p) }
func (s *fakeSpan) End()                        { s.ended = true }
func (s *fakeSpan) RecordError(err error)       { s.err = err }

func (s *fakeSpan) SetAttribute(key string, value any) {
	if s.attrs == nil {
		s.attrs = make(map[string]any)
	}
	s.attrs[key] = value
}
