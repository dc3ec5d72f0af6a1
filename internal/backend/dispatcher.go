package backend

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"gallery-engine/internal/focus"
)

// API is the subset of Client the dispatcher calls.
type API interface {
	RecordTime(ctx context.Context, exhibitionID string, seconds float64) error
	ToggleLike(ctx context.Context, exhibitionID, artworkID string) error
}

type job struct {
	name string
	run  func(ctx context.Context) error
}

// Dispatcher delivers session notifications to the backend on its own
// worker goroutines. Submitting never blocks: when the queue is full the
// notification is dropped and counted.
type Dispatcher struct {
	api     API
	log     *slog.Logger
	timeout time.Duration

	jobs    chan job
	wg      sync.WaitGroup
	closeMu sync.RWMutex
	closed  bool

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

// DispatcherOptions sizes a Dispatcher. Zero fields take defaults.
type DispatcherOptions struct {
	Workers int
	Queue   int
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewDispatcher starts the workers.
func NewDispatcher(api API, opts DispatcherOptions) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.Queue <= 0 {
		opts.Queue = 64
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	d := &Dispatcher{
		api:     api,
		log:     opts.Logger,
		timeout: opts.Timeout,
		jobs:    make(chan job, opts.Queue),
	}
	for w := 0; w < opts.Workers; w++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for j := range d.jobs {
				d.exec(j)
			}
		}()
	}
	return d
}

func (d *Dispatcher) exec(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := j.run(ctx); err != nil {
		d.failed.Add(1)
		d.log.Warn("backend: notification failed", "job", j.name, "err", err)
		return
	}
	d.sent.Add(1)
}

func (d *Dispatcher) submit(j job) {
	d.closeMu.RLock()
	defer d.closeMu.RUnlock()
	if d.closed {
		d.dropped.Add(1)
		return
	}
	select {
	case d.jobs <- j:
	default:
		d.dropped.Add(1)
		d.log.Warn("backend: queue full, dropping notification", "job", j.name)
	}
}

// ArtworkFocused has no backend endpoint; it is logged for analytics.
func (d *Dispatcher) ArtworkFocused(exhibitionID string, ev focus.ArtworkFocused) {
	d.log.Info("artwork focused", "exhibition", exhibitionID, "artwork", ev.ArtworkID)
}

// LikeToggled queues a like toggle.
func (d *Dispatcher) LikeToggled(exhibitionID, artworkID string) {
	d.submit(job{name: "like", run: func(ctx context.Context) error {
		return d.api.ToggleLike(ctx, exhibitionID, artworkID)
	}})
}

// TimeSpent queues a viewing-time update. Non-positive durations are
// ignored.
func (d *Dispatcher) TimeSpent(exhibitionID string, seconds float64) {
	if seconds <= 0 {
		return
	}
	d.submit(job{name: "analytics", run: func(ctx context.Context) error {
		return d.api.RecordTime(ctx, exhibitionID, seconds)
	}})
}

// Stats returns the delivered, failed and dropped counts.
func (d *Dispatcher) Stats() (sent, failed, dropped int64) {
	return d.sent.Load(), d.failed.Load(), d.dropped.Load()
}

// Close stops accepting work and waits for queued notifications to drain
// or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeMu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.closeMu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
