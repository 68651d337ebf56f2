package shell

// NewPipeExecutor returns an Executor that never allocates a PTY.
func NewPipeExecutor() *Executor {
	return &Executor{usePTY: false}
}
