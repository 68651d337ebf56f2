package progrock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/adapters/telemetry/progrock"
	"go.trai.ch/recipe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestRecorder_ForwardsLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockRenderer(ctrl)
	rec := progrock.New(next)

	start := time.Now()
	buildErr := errors.New("exit status 2")

	gomock.InOrder(
		next.EXPECT().Start(gomock.Any()).Return(nil),
		next.EXPECT().OnPlanEmit([]string{"generate", "build"}, []string{"build"}),
		next.EXPECT().OnTaskStart("span-1", "", "generate", start),
		next.EXPECT().OnTaskLog("span-1", []byte("wrote recipe_toolchain.cmake\n")),
		next.EXPECT().OnTaskComplete("span-1", start.Add(time.Second), nil),
		next.EXPECT().OnTaskStart("span-2", "", "build", start),
		next.EXPECT().OnTaskComplete("span-2", start.Add(2*time.Second), buildErr),
		next.EXPECT().Stop().Return(nil),
		next.EXPECT().Wait().Return(nil),
	)

	require.NoError(t, rec.Start(context.Background()))
	rec.OnPlanEmit([]string{"generate", "build"}, []string{"build"})

	rec.OnTaskStart("span-1", "", "generate", start)
	assert.Equal(t, 1, rec.Open())
	rec.OnTaskLog("span-1", []byte("wrote recipe_toolchain.cmake\n"))
	rec.OnTaskComplete("span-1", start.Add(time.Second), nil)
	assert.Equal(t, 0, rec.Open())

	rec.OnTaskStart("span-2", "", "build", start)
	rec.OnTaskComplete("span-2", start.Add(2*time.Second), buildErr)

	require.NoError(t, rec.Stop())
	require.NoError(t, rec.Wait())
}

func TestRecorder_StopClosesOpenPhases(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockRenderer(ctrl)
	rec := progrock.New(next)

	next.EXPECT().OnTaskStart("span-1", "", "test", gomock.Any())
	next.EXPECT().OnTaskLog("unknown", []byte("ignored\n"))
	next.EXPECT().Stop().Return(nil)

	rec.OnTaskStart("span-1", "", "test", time.Now())
	rec.OnTaskLog("unknown", []byte("ignored\n"))
	assert.Equal(t, 1, rec.Open())

	require.NoError(t, rec.Stop())
	assert.Equal(t, 0, rec.Open())
}

func TestRecorder_StopError(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockRenderer(ctrl)
	rec := progrock.New(next)

	next.EXPECT().Stop().Return(errors.New("flush failed"))

	err := rec.Stop()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flush failed")
}
