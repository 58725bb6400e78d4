// Package recorder provides asynchronous, buffered writing of event
// records so request hot paths never wait on disk. Callers that need
// immediate error surfacing append through the event log store directly.
package recorder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Appender persists one event record. *eventlog.Store satisfies it.
type Appender interface {
	Append(record any) error
}

// Config holds configuration for the Recorder
type Config struct {
	BufferSize  int // Size of the record buffer channel
	WorkerCount int // Number of concurrent workers
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  10000,
		WorkerCount: 5,
	}
}

// Recorder drains buffered records into an Appender with a pool of
// background workers. Append failures are logged, never retried.
type Recorder struct {
	appender    Appender
	logger      *zap.Logger
	recordChan  chan any
	workerCount int
	bufferSize  int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	started     bool
	mu          sync.Mutex
}

// New creates a new Recorder instance
func New(appender Appender, logger *zap.Logger, config Config) *Recorder {
	ctx, cancel := context.WithCancel(context.Background())

	return &Recorder{
		appender:    appender,
		logger:      logger,
		recordChan:  make(chan any, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
		ctx:         ctx,
		cancel:      cancel,
		started:     false,
	}
}

// Start starts the background workers
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return fmt.Errorf("recorder already started")
	}

	for i := 0; i < r.workerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.started = true
	r.logger.Info("started recorder",
		zap.Int("worker_count", r.workerCount),
		zap.Int("buffer_size", r.bufferSize))

	return nil
}

// Stop gracefully stops the recorder.
// Waits for all pending records to be written.
func (r *Recorder) Stop(timeout time.Duration) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return fmt.Errorf("recorder not started")
	}
	r.started = false
	r.mu.Unlock()

	r.logger.Info("stopping recorder", zap.Int("pending_records", len(r.recordChan)))

	// Signal the workers. The channel itself stays open so a racing
	// enqueue can never hit a closed channel; workers drain whatever is
	// buffered before exiting.
	r.cancel()

	// Wait for workers to finish with timeout
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("recorder stopped gracefully")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("recorder stop timeout after %v", timeout)
	}
}

// Record enqueues a record asynchronously (non-blocking).
// Returns immediately; the record is written in the background.
func (r *Recorder) Record(record any) error {
	// The send happens under the mutex so it cannot interleave with Stop:
	// either the record lands in the buffer before the workers are told to
	// drain, or the started check fails.
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return fmt.Errorf("recorder not started")
	}

	select {
	case r.recordChan <- record:
		return nil
	default:
		// Channel is full, log warning and drop record
		r.logger.Warn("record channel full, dropping record")
		return fmt.Errorf("record buffer full")
	}
}

// RecordBlocking enqueues a record synchronously (blocking).
// Waits until the record is queued or the context is cancelled.
func (r *Recorder) RecordBlocking(ctx context.Context, record any) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return fmt.Errorf("recorder not started")
	}
	select {
	case r.recordChan <- record:
		r.mu.Unlock()
		return nil
	default:
	}
	r.mu.Unlock()

	// Buffer full: wait without holding the mutex. The channel is never
	// closed, so blocking here past a Stop is safe; r.ctx unblocks it.
	select {
	case r.recordChan <- record:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-r.ctx.Done():
		return fmt.Errorf("recorder stopped")
	}
}

// RecordAll enqueues every record in order via Record, stopping at the
// first enqueue failure.
func (r *Recorder) RecordAll(records []any) error {
	for i, record := range records {
		if err := r.Record(record); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// Pending returns the number of buffered records not yet written
func (r *Recorder) Pending() int {
	return len(r.recordChan)
}

// worker writes records from the channel
func (r *Recorder) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("recorder worker started", zap.Int("worker_id", id))

	for {
		select {
		case record := <-r.recordChan:
			r.write(id, record)
		case <-r.ctx.Done():
			// Drain whatever is still buffered, then exit.
			for {
				select {
				case record := <-r.recordChan:
					r.write(id, record)
				default:
					r.logger.Debug("recorder worker stopped", zap.Int("worker_id", id))
					return
				}
			}
		}
	}
}

func (r *Recorder) write(id int, record any) {
	if err := r.appender.Append(record); err != nil {
		r.logger.Error("failed to write record",
			zap.Int("worker_id", id),
			zap.Error(err))
	}
}
