package telemetry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/recipe/internal/adapters/telemetry"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/recipe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = telemetry.NoOpSpan{}
	var _ sdktrace.SpanProcessor = (*telemetry.Bridge)(nil)
}

func newTracer(t *testing.T, renderer ports.Renderer) *telemetry.OTelTracer {
	t.Helper()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })
	return telemetry.NewOTelTracerFrom(tp.Tracer("test")).WithRenderer(renderer)
}

func TestOTelTracer_StreamsPhaseToRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tracer := newTracer(t, renderer)

	gomock.InOrder(
		renderer.EXPECT().OnTaskStart(gomock.Any(), "", "build", gomock.Any()),
		renderer.EXPECT().OnTaskLog(gomock.Any(), []byte("-- Configuring done\n")),
		renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil),
	)

	_, span := tracer.Start(t.Context(), "build")
	span.SetAttribute("recipe.build_type", "Release")
	n, err := span.Write([]byte("-- Configuring done\n"))
	require.NoError(t, err)
	assert.Equal(t, 20, n)
	span.End()
}

func TestOTelTracer_FailedPhase(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tracer := newTracer(t, renderer)

	renderer.EXPECT().OnTaskStart(gomock.Any(), gomock.Any(), "test", gomock.Any())
	renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ string, _ any, err error) {
			require.Error(t, err)
			assert.Equal(t, "tests failed", err.Error())
		})

	_, span := tracer.Start(t.Context(), "test")
	span.RecordError(errors.New("tests failed"))
	span.RecordError(nil)
	span.End()
}

func TestOTelTracer_NestedSpanReportsParent(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tracer := newTracer(t, renderer)

	var rootID string
	renderer.EXPECT().OnTaskStart(gomock.Any(), "", "create", gomock.Any()).
		Do(func(id, _, _ string, _ any) { rootID = id })
	renderer.EXPECT().OnTaskStart(gomock.Any(), gomock.Any(), "generate", gomock.Any()).
		Do(func(_, parent, _ string, _ any) { assert.Equal(t, rootID, parent) })
	renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil).Times(2)

	ctx, root := tracer.Start(t.Context(), "create")
	_, child := tracer.Start(ctx, "generate")
	child.End()
	root.End()
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tracer := newTracer(t, renderer)

	renderer.EXPECT().OnPlanEmit([]string{"generate", "build"}, []string{"build"})
	tracer.EmitPlan(t.Context(), []string{"generate", "build"}, []string{"build"})
}

func TestOTelTracer_WithoutRenderer(t *testing.T) {
	tracer := telemetry.NewOTelTracer("test")
	_, span := tracer.Start(t.Context(), "build")
	n, err := span.Write([]byte("log"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	tracer.EmitPlan(t.Context(), []string{"build"}, nil)
	span.End()
}

func TestBridge_NilRenderer(t *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)))
	defer func() { _ = tp.Shutdown(t.Context()) }()

	_, span := tp.Tracer("test").Start(t.Context(), "build")
	span.End()
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx, span := tracer.Start(t.Context(), "build")
	assert.Equal(t, t.Context(), ctx)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	n, err := span.Write([]byte("test log"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	tracer.EmitPlan(ctx, nil, nil)
	span.End()
}
