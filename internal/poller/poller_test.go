package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/LesnyRumcajs/pdp-hackathon/internal/common"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/explorer"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/logging"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/store"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type healthResult struct {
	fileID  string
	healthy bool
}

// fakeCoordinator hands out a fixed target list and records submissions.
type fakeCoordinator struct {
	mu        sync.Mutex
	targets   []store.PollTarget
	submitted []healthResult
}

func (f *fakeCoordinator) PollTargets(time.Duration) []store.PollTarget {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.PollTarget(nil), f.targets...)
}

func (f *fakeCoordinator) SubmitHealth(_ context.Context, fileID string, healthy bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, healthResult{fileID: fileID, healthy: healthy})
}

func (f *fakeCoordinator) results() []healthResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]healthResult(nil), f.submitted...)
}

// fakeChecker returns a scripted health (or error) per proof set.
type fakeChecker struct {
	mu      sync.Mutex
	health  map[string]explorer.Health
	errs    map[string]error
	queried []string
}

func (f *fakeChecker) CheckHealth(_ context.Context, proofSetID, rootCID string) (explorer.Health, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queried = append(f.queried, proofSetID)
	if err, ok := f.errs[proofSetID]; ok {
		return explorer.HealthUnknown, err
	}
	return f.health[proofSetID], nil
}

func (f *fakeChecker) queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queried...)
}

func newPoller(coord Coordinator, checker HealthChecker) *Poller {
	return New(coord, checker, time.Hour, time.Second, time.Second, testLogger())
}

func TestTick_SubmitsHealthResults(t *testing.T) {
	coord := &fakeCoordinator{targets: []store.PollTarget{
		{FileID: "a:ra", ProofSetID: "1", RootCID: "ra"},
		{FileID: "b:rb", ProofSetID: "2", RootCID: "rb"},
	}}
	checker := &fakeChecker{health: map[string]explorer.Health{
		"1": explorer.HealthProven,
		"2": explorer.HealthFaulty,
	}}

	newPoller(coord, checker).tick(context.Background())

	got := coord.results()
	if len(got) != 2 {
		t.Fatalf("submitted %d results, want 2", len(got))
	}
	byFile := map[string]bool{}
	for _, r := range got {
		byFile[r.fileID] = r.healthy
	}
	if !byFile["a:ra"] || byFile["b:rb"] {
		t.Fatalf("unexpected results: %v", got)
	}
}

func TestTick_UnknownHealthIsNotSubmitted(t *testing.T) {
	coord := &fakeCoordinator{targets: []store.PollTarget{
		{FileID: "a:ra", ProofSetID: "1", RootCID: "ra"},
	}}
	checker := &fakeChecker{health: map[string]explorer.Health{"1": explorer.HealthUnknown}}

	newPoller(coord, checker).tick(context.Background())

	if got := coord.results(); len(got) != 0 {
		t.Fatalf("unknown health reached the coordinator: %v", got)
	}
}

func TestTick_QueryFailureIsSoft(t *testing.T) {
	coord := &fakeCoordinator{targets: []store.PollTarget{
		{FileID: "a:ra", ProofSetID: "1", RootCID: "ra"},
		{FileID: "b:rb", ProofSetID: "2", RootCID: "rb"},
	}}
	checker := &fakeChecker{
		errs:   map[string]error{"1": common.ErrQuery},
		health: map[string]explorer.Health{"2": explorer.HealthProven},
	}

	newPoller(coord, checker).tick(context.Background())

	// The failing query is skipped; the remaining target is still checked.
	if got := checker.queries(); len(got) != 2 {
		t.Fatalf("queried %v, want both proof sets", got)
	}
	got := coord.results()
	if len(got) != 1 || got[0].fileID != "b:rb" || !got[0].healthy {
		t.Fatalf("unexpected results: %v", got)
	}
}

func TestTick_SkipsTargetsWithoutRootCID(t *testing.T) {
	coord := &fakeCoordinator{targets: []store.PollTarget{
		{FileID: "plain-id", ProofSetID: "1", RootCID: ""},
	}}
	checker := &fakeChecker{}

	newPoller(coord, checker).tick(context.Background())

	if got := checker.queries(); len(got) != 0 {
		t.Fatalf("target without root CID was queried: %v", got)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	coord := &fakeCoordinator{}
	checker := &fakeChecker{}
	p := New(coord, checker, 10*time.Millisecond, time.Second, time.Second, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancellation")
	}
}

func TestRetriedNextTickAfterFailure(t *testing.T) {
	coord := &fakeCoordinator{targets: []store.PollTarget{
		{FileID: "a:ra", ProofSetID: "1", RootCID: "ra"},
	}}
	checker := &fakeChecker{errs: map[string]error{"1": errors.New("boom")}}
	p := newPoller(coord, checker)

	p.tick(context.Background())

	// The next tick sees a healthy API again.
	checker.mu.Lock()
	checker.errs = nil
	checker.health = map[string]explorer.Health{"1": explorer.HealthProven}
	checker.mu.Unlock()

	p.tick(context.Background())

	got := coord.results()
	if len(got) != 1 || !got[0].healthy {
		t.Fatalf("recovery tick did not submit: %v", got)
	}
}
