// Package shell provides a process executor for build and test commands.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec and a pseudo terminal.
//
// Commands run in a PTY where the platform supports it so that compilers keep
// their colored diagnostics. Elsewhere they fall back to plain pipes.
type Executor struct {
	usePTY bool
}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{usePTY: true}
}

// Execute runs the command and waits for it to complete.
func (e *Executor) Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error {
	if cmd.Path == "" {
		return zerr.With(domain.ErrCommandStartFailed, "reason", "empty command path")
	}

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...) //nolint:gosec // commands come from the recipe
	c.Dir = cmd.Dir
	c.Env = mergeEnvironment(os.Environ(), cmd.Env)

	wait, err := e.start(c, stdout, stderr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCommandStartFailed.Error()), "command", cmd.Path)
	}

	if err := wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			return &domain.ExitError{Command: cmd.Path, Code: exitErr.ExitCode()}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return zerr.With(zerr.Wrap(err, "command failed"), "command", cmd.Path)
	}
	return nil
}

func (e *Executor) start(c *exec.Cmd, stdout, stderr io.Writer) (func() error, error) {
	if e.usePTY {
		ptmx, err := pty.Start(c)
		switch {
		case err == nil:
			return ptyWait(c, ptmx, stdout), nil
		case !errors.Is(err, pty.ErrUnsupported):
			return nil, err
		}
	}

	c.Stdout = stdout
	c.Stderr = stderr
	if err := c.Start(); err != nil {
		return nil, err
	}
	return c.Wait, nil
}

func ptyWait(c *exec.Cmd, ptmx *os.File, stdout io.Writer) func() error {
	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		// The PTY merges stdout and stderr.
		_, _ = io.Copy(stdout, ptmx)
	}()

	return func() error {
		err := c.Wait()
		<-ioDone
		return err
	}
}

// mergeEnvironment overlays extra "KEY=VALUE" entries on the inherited environment.
// Later entries win. The result is sorted by key.
func mergeEnvironment(sysEnv, extra []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(extra))
	for _, list := range [][]string{sysEnv, extra} {
		for _, entry := range list {
			if k, v, ok := strings.Cut(entry, "="); ok && k != "" {
				envMap[k] = v
			}
		}
	}

	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, k+"="+envMap[k])
	}
	return result
}
