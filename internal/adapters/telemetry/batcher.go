// Package telemetry reports pipeline phases as OpenTelemetry spans and
// streams their output to a renderer.
package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultSizeLimit is the buffered byte count that forces a flush.
	DefaultSizeLimit = 4096
	// DefaultTimeLimit is the interval after which buffered output is flushed.
	DefaultTimeLimit = 50 * time.Millisecond
)

// errBatcherClosed is returned when writing to a closed BatchProcessor.
var errBatcherClosed = zerr.New("batch processor is closed")

// BatchProcessor buffers writes and hands them to onFlush in order, either
// when the buffer grows past sizeLimit or when timeLimit elapses.
// Size-triggered flushes stop at the last complete line.
type BatchProcessor struct {
	sizeLimit int
	timeLimit time.Duration
	onFlush   func([]byte)

	mu     sync.Mutex
	buffer bytes.Buffer
	ticker *time.Ticker
	stopCh chan struct{}
	closed bool
}

// NewBatchProcessor returns a running BatchProcessor. Non-positive limits
// select the defaults. Close stops the background flusher.
func NewBatchProcessor(sizeLimit int, timeLimit time.Duration, onFlush func([]byte)) *BatchProcessor {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	bp := &BatchProcessor{
		sizeLimit: sizeLimit,
		timeLimit: timeLimit,
		onFlush:   onFlush,
		stopCh:    make(chan struct{}),
		ticker:    time.NewTicker(timeLimit),
	}
	go bp.run()
	return bp
}

// Write buffers p.
func (bp *BatchProcessor) Write(p []byte) (int, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return 0, errBatcherClosed
	}

	n, _ := bp.buffer.Write(p)
	if bp.buffer.Len() >= bp.sizeLimit {
		bp.flushLinesLocked()
		bp.ticker.Reset(bp.timeLimit)
	}
	return n, nil
}

// Flush hands all buffered data to the callback.
func (bp *BatchProcessor) Flush() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.closed {
		return
	}
	bp.flushLocked(bp.buffer.Len())
}

// Close stops the background flusher and flushes what is left.
func (bp *BatchProcessor) Close() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return nil
	}
	bp.closed = true
	close(bp.stopCh)
	bp.flushLocked(bp.buffer.Len())
	return nil
}

func (bp *BatchProcessor) run() {
	for {
		select {
		case <-bp.ticker.C:
			bp.Flush()
		case <-bp.stopCh:
			bp.ticker.Stop()
			return
		}
	}
}

// flushLinesLocked flushes up to the last newline, or everything when the
// buffer holds no newline at all.
func (bp *BatchProcessor) flushLinesLocked() {
	n := bytes.LastIndexByte(bp.buffer.Bytes(), '\n') + 1
	if n == 0 {
		n = bp.buffer.Len()
	}
	bp.flushLocked(n)
}

// flushLocked must be called with mu held.
func (bp *BatchProcessor) flushLocked(n int) {
	if n == 0 {
		return
	}
	data := bytes.Clone(bp.buffer.Next(n))
	if bp.onFlush != nil {
		bp.onFlush(data)
	}
}
