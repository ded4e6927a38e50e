// Package poller periodically reconciles tracked records against the proof
// health of their proof sets. Query failures are soft: the record keeps its
// status and is retried on the next tick.
package poller

import (
	"context"
	"time"

	"github.com/LesnyRumcajs/pdp-hackathon/internal/explorer"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/logging"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/store"
)

// HealthChecker queries the health of one root within a proof set.
// Implemented by explorer.Client.
type HealthChecker interface {
	CheckHealth(ctx context.Context, proofSetID, rootCID string) (explorer.Health, error)
}

// Coordinator is the poller's view of the relay coordinator: a source of
// poll targets and the only way to apply a result.
type Coordinator interface {
	PollTargets(minRecheck time.Duration) []store.PollTarget
	SubmitHealth(ctx context.Context, fileID string, healthy bool)
}

type Poller struct {
	coord        Coordinator
	checker      HealthChecker
	interval     time.Duration
	minRecheck   time.Duration
	queryTimeout time.Duration
	logger       logging.Logger
}

func New(coord Coordinator, checker HealthChecker, interval, minRecheck, queryTimeout time.Duration, logger logging.Logger) *Poller {
	return &Poller{
		coord:        coord,
		checker:      checker,
		interval:     interval,
		minRecheck:   minRecheck,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// Run ticks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info(ctx, "proof poller started", "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick checks every due record. Queries run one at a time, each bounded by
// its own timeout so a stuck one cannot eat the whole tick.
func (p *Poller) tick(ctx context.Context) {
	for _, target := range p.coord.PollTargets(p.minRecheck) {
		if ctx.Err() != nil {
			return
		}
		if target.RootCID == "" {
			p.logger.Warn(ctx, "no root CID in file identifier", "file_id", target.FileID)
			continue
		}

		queryCtx, cancel := context.WithTimeout(ctx, p.queryTimeout)
		health, err := p.checker.CheckHealth(queryCtx, target.ProofSetID, target.RootCID)
		cancel()
		if err != nil {
			p.logger.Error(ctx, "proof health check failed",
				"proofset_id", target.ProofSetID, "root_cid", target.RootCID, "error", err)
			continue
		}

		switch health {
		case explorer.HealthProven:
			p.coord.SubmitHealth(ctx, target.FileID, true)
		case explorer.HealthFaulty:
			p.coord.SubmitHealth(ctx, target.FileID, false)
		default:
			// No proving history yet; nothing to apply.
			p.logger.Debug(ctx, "proof health not established yet", "proofset_id", target.ProofSetID)
		}
	}
}
