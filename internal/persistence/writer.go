package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Basharkhan7776/mudir/internal/shared"
)

// Status reports what Submit did with a payload.
type Status int

const (
	// StatusStarted means the payload is being written now.
	StatusStarted Status = iota
	// StatusCoalesced means a write was in flight; the payload replaced the
	// pending slot and will be written when the current write finishes.
	StatusCoalesced
)

func (s Status) String() string {
	if s == StatusCoalesced {
		return "coalesced"
	}
	return "started"
}

// Write outcomes reported to the Recorder.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeCoalesced = "coalesced"
)

// Recorder observes write outcomes.
type Recorder interface {
	ObserveWrite(outcome string, d time.Duration)
}

// WriterOptions configures a Writer.
type WriterOptions struct {
	Logger   *slog.Logger
	Recorder Recorder
	Timeout  time.Duration
}

// Writer serializes saves to a Backend. At most one write runs at a time and
// at most one payload waits behind it; newer payloads replace the waiting
// one.
type Writer struct {
	backend  Backend
	logger   *slog.Logger
	recorder Recorder
	timeout  time.Duration

	mu         sync.Mutex
	writing    bool
	pending    []byte
	hasPending bool
	idle       chan struct{}
	lastErr    error
}

// NewWriter builds a Writer over backend.
func NewWriter(backend Backend, opts WriterOptions) *Writer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Writer{backend: backend, logger: logger, recorder: opts.Recorder, timeout: timeout}
}

// Submit schedules payload for writing. The caller must not modify payload
// afterwards.
func (w *Writer) Submit(payload []byte) Status {
	w.mu.Lock()
	if w.writing {
		w.pending = payload
		w.hasPending = true
		w.mu.Unlock()
		w.observe(OutcomeCoalesced, 0)
		return StatusCoalesced
	}
	w.writing = true
	w.idle = make(chan struct{})
	w.mu.Unlock()

	go w.run(payload)
	return StatusStarted
}

func (w *Writer) run(payload []byte) {
	for {
		err := w.save(payload)

		w.mu.Lock()
		w.lastErr = err
		if w.hasPending {
			payload = w.pending
			w.pending = nil
			w.hasPending = false
			w.mu.Unlock()
			continue
		}
		w.writing = false
		close(w.idle)
		w.mu.Unlock()
		return
	}
}

func (w *Writer) save(payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	err := w.backend.Save(ctx, payload)
	elapsed := time.Since(start)
	if err != nil {
		w.observe(OutcomeFailure, elapsed)
		w.logger.Error("persist document", slog.Int("bytes", len(payload)), slog.Any("error", err))
		return fmt.Errorf("%w: %w", shared.ErrPersistence, err)
	}
	w.observe(OutcomeSuccess, elapsed)
	return nil
}

func (w *Writer) observe(outcome string, d time.Duration) {
	if w.recorder != nil {
		w.recorder.ObserveWrite(outcome, d)
	}
}

// Flush waits until no write is running or pending and returns the error of
// the last completed write.
func (w *Writer) Flush(ctx context.Context) error {
	for {
		w.mu.Lock()
		if !w.writing {
			err := w.lastErr
			w.mu.Unlock()
			return err
		}
		idle := w.idle
		w.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-idle:
		}
	}
}

// SaveNow writes payload synchronously after any in-flight writes finish.
func (w *Writer) SaveNow(ctx context.Context, payload []byte) error {
	if err := w.Flush(ctx); err != nil && ctx.Err() != nil {
		return err
	}
	w.Submit(payload)
	return w.Flush(ctx)
}
