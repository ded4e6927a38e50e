// Package coordinator owns the status store. Every transition — from the
// event ingress or the proof poller — passes through its single mutation
// point, and every applied transition that changes the visible
// (name, status) pair is forwarded to the display sink in application order.
package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/LesnyRumcajs/pdp-hackathon/internal/events"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/logging"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/store"
)

// LineSink consumes rendered status lines. A failed enqueue is logged and
// otherwise ignored: a missed display update is user-visible but never
// affects the relay's internal state.
type LineSink interface {
	Enqueue(rec store.FileRecord) error
}

type Coordinator struct {
	mu     sync.Mutex
	store  *store.Store
	sink   LineSink
	logger logging.Logger
	now    func() time.Time
}

func New(sink LineSink, logger logging.Logger) *Coordinator {
	return &Coordinator{
		store:  store.New(),
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

// SubmitEvent applies one decoded pipeline event.
func (c *Coordinator) SubmitEvent(ctx context.Context, ev events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		rec     store.FileRecord
		changed bool
	)
	switch e := ev.(type) {
	case events.Uploaded:
		rec, changed = c.store.ApplyUploaded(e.FileID, e.DisplayName, c.now())
	case events.RootsAdded:
		if existing, ok := c.store.Get(e.FileID); ok && existing.ProofSetID != "" && existing.ProofSetID != e.ProofSetID {
			// A re-proving cycle; the first proof set wins for this run.
			c.logger.Warn(ctx, "ignoring proof set change for tracked file",
				"file", existing.DisplayName, "current", existing.ProofSetID, "received", e.ProofSetID)
		}
		rec, changed = c.store.ApplyRootsAdded(e.FileID, e.DisplayName, e.ProofSetID, c.now())
	default:
		c.logger.Warn(ctx, "unsupported event type dropped", "file_id", ev.FileIdentifier())
		return
	}

	if changed {
		c.forward(ctx, rec)
	}
}

// SubmitHealth applies one proof-health poll result for fileID.
func (c *Coordinator) SubmitHealth(ctx context.Context, fileID string, healthy bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec, changed := c.store.ApplyHealth(fileID, healthy, c.now()); changed {
		c.forward(ctx, rec)
	}
}

// PollTargets snapshots the records currently due for a proof-health check.
func (c *Coordinator) PollTargets(minRecheck time.Duration) []store.PollTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.PollTargets(c.now(), minRecheck)
}

// Record returns a copy of the tracked record for fileID.
func (c *Coordinator) Record(fileID string) (store.FileRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Get(fileID)
}

func (c *Coordinator) forward(ctx context.Context, rec store.FileRecord) {
	c.logger.Info(ctx, "status changed", "file", rec.DisplayName, "status", rec.Status.DisplayText())
	if err := c.sink.Enqueue(rec); err != nil {
		c.logger.Error(ctx, "display update dropped", "file", rec.DisplayName, "error", err)
	}
}
