// Package linear provides a line-buffered renderer for pipeline phases.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/recipe/internal/ui/output"
	"go.trai.ch/recipe/internal/ui/style"
)

// Renderer implements ports.Renderer with chronological, phase-prefixed lines.
// Phase output goes to stdout, status lines go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu     sync.Mutex
	phases map[string]*phaseState
}

type phaseState struct {
	name      string
	startTime time.Time
	pending   bytes.Buffer
}

// NewRenderer creates a Renderer with the basic ANSI profile used in CI logs.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	return NewRendererWithProfile(stdout, stderr, output.ColorProfileANSI)
}

// NewRendererWithProfile creates a Renderer whose colors follow profileFn.
// Nil writers select os.Stdout and os.Stderr.
func NewRendererWithProfile(stdout, stderr io.Writer, profileFn output.ProfileFunc) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		output: output.NewWithProfile(stderr, profileFn),
		phases: make(map[string]*phaseState),
	}
}

// Start is a no-op; the renderer writes synchronously.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes partial lines of phases that never completed.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.phases {
		r.flushPendingLocked(p)
	}
	return nil
}

// Wait is a no-op; the renderer writes synchronously.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the phases about to run.
func (r *Renderer) OnPlanEmit(phases []string, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan := strings.Join(phases, " "+style.Arrow+" ")
	line := fmt.Sprintf("Running %d phase(s): %s", len(phases), plan)
	if len(targets) > 0 {
		line += fmt.Sprintf(" (target: %s)", strings.Join(targets, ", "))
	}
	_, _ = fmt.Fprintln(r.stderr, r.colored(line, style.Accent))
}

// OnTaskStart prints the phase start line.
func (r *Renderer) OnTaskStart(spanID, _, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.phases[spanID] = &phaseState{name: name, startTime: startTime}
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", r.output.String(prefix(name)).Faint())
}

// OnTaskLog prints the complete lines of data under the phase prefix and keeps the rest.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.phases[spanID]
	if !ok {
		return
	}

	p.pending.Write(data)
	for {
		i := bytes.IndexByte(p.pending.Bytes(), '\n')
		if i < 0 {
			break
		}
		r.printLineLocked(p.name, p.pending.Next(i+1))
	}
}

// OnTaskComplete flushes the phase output and prints its result.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.phases[spanID]
	if !ok {
		return
	}
	r.flushPendingLocked(p)
	delete(r.phases, spanID)

	duration := endTime.Sub(p.startTime).Round(time.Millisecond)
	if err != nil {
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n",
			prefix(p.name), r.colored(style.Cross, style.Red), duration, err)
		return
	}
	_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n",
		prefix(p.name), r.colored(style.Check, style.Green), duration)
}

func (r *Renderer) colored(s string, c lipgloss.Color) string {
	return r.output.String(s).Foreground(r.output.Color(string(c))).String()
}

func (r *Renderer) flushPendingLocked(p *phaseState) {
	if p.pending.Len() > 0 {
		r.printLineLocked(p.name, p.pending.Bytes())
		p.pending.Reset()
	}
}

func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", prefix(name), line)
}

func prefix(name string) string {
	return "[" + name + "]"
}
