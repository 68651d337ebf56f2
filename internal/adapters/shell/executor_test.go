package shell_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/adapters/shell"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/zerr"
)

func executors() map[string]*shell.Executor {
	return map[string]*shell.Executor{
		"pty":  shell.NewExecutor(),
		"pipe": shell.NewPipeExecutor(),
	}
}

func TestExecutor_Execute_MultiLineOutput(t *testing.T) {
	for name, executor := range executors() {
		t.Run(name, func(t *testing.T) {
			cmd := domain.Command{
				Path: "sh",
				Args: []string{"-c", "echo line1; echo line2"},
				Dir:  t.TempDir(),
			}

			var stdout bytes.Buffer
			err := executor.Execute(context.Background(), cmd, &stdout, io.Discard)
			require.NoError(t, err)

			output := stdout.String()
			assert.Contains(t, output, "line1")
			assert.Contains(t, output, "line2")
		})
	}
}

func TestExecutor_Execute_EnvironmentVariables(t *testing.T) {
	t.Setenv("RECIPE_INHERITED", "from-parent")

	for name, executor := range executors() {
		t.Run(name, func(t *testing.T) {
			cmd := domain.Command{
				Path: "sh",
				Args: []string{"-c", "echo $MY_TEST_VAR $RECIPE_INHERITED"},
				Env:  []string{"MY_TEST_VAR=test-value-123"},
				Dir:  t.TempDir(),
			}

			var stdout bytes.Buffer
			err := executor.Execute(context.Background(), cmd, &stdout, io.Discard)
			require.NoError(t, err)
			assert.Contains(t, stdout.String(), "test-value-123 from-parent")
		})
	}
}

func TestExecutor_Execute_WorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("here"), 0o600))

	var stdout bytes.Buffer
	cmd := domain.Command{Path: "cat", Args: []string{"marker.txt"}, Dir: dir}
	err := shell.NewPipeExecutor().Execute(context.Background(), cmd, &stdout, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "here", stdout.String())
}

func TestExecutor_Execute_ExitCode(t *testing.T) {
	for name, executor := range executors() {
		t.Run(name, func(t *testing.T) {
			cmd := domain.Command{Path: "sh", Args: []string{"-c", "exit 42"}, Dir: t.TempDir()}

			err := executor.Execute(context.Background(), cmd, io.Discard, io.Discard)
			require.Error(t, err)

			var exitErr *domain.ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 42, exitErr.Code)
			assert.Equal(t, "sh: exit status 42", err.Error())
		})
	}
}

func TestExecutor_Execute_InvalidCommand(t *testing.T) {
	cmd := domain.Command{Path: "nonexistent-command-xyz123", Dir: t.TempDir()}

	err := shell.NewExecutor().Execute(context.Background(), cmd, io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start command")

	var exitErr *domain.ExitError
	assert.NotErrorAs(t, err, &exitErr)
}

func TestExecutor_Execute_EmptyCommand(t *testing.T) {
	err := shell.NewExecutor().Execute(context.Background(), domain.Command{Args: []string{"--version"}}, io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start command")

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "empty command path", zErr.Metadata()["reason"])

	var exitErr *domain.ExitError
	assert.NotErrorAs(t, err, &exitErr)
}

func TestExecutor_Execute_StreamsOutput(t *testing.T) {
	ansiRed := "\033[31m"
	ansiReset := "\033[0m"
	msg := "Hello Red World"
	cmd := domain.Command{
		Path: "sh",
		Args: []string{"-c", "printf '" + ansiRed + msg + ansiReset + "'"},
		Dir:  t.TempDir(),
	}

	var stdout bytes.Buffer
	err := shell.NewExecutor().Execute(context.Background(), cmd, &stdout, io.Discard)
	require.NoError(t, err)

	output := stdout.String()
	assert.True(t, strings.Contains(output, ansiRed), "expected ANSI codes to pass through, got %q", output)
	assert.Contains(t, output, msg)
}

func TestExecutor_Execute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := domain.Command{Path: "sleep", Args: []string{"5"}, Dir: t.TempDir()}
	err := shell.NewPipeExecutor().Execute(ctx, cmd, io.Discard, io.Discard)
	require.Error(t, err)
}
