package bulk

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/johanforsgren/followsweep/internal/domain"
)

// RunHandle tracks one bulk run. The run reports exactly once: Done closes
// after the result is set.
type RunHandle struct {
	ID        string
	Kind      domain.RunKind
	StartedAt time.Time

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	result domain.RunResult
}

func newRunHandle(kind domain.RunKind, startedAt time.Time, cancel context.CancelFunc) *RunHandle {
	return &RunHandle{
		ID:        uuid.NewString(),
		Kind:      kind,
		StartedAt: startedAt,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

func (h *RunHandle) Done() <-chan struct{} {
	return h.done
}

// Cancel stops the run from issuing further mutations. Mutations already
// applied stay applied.
func (h *RunHandle) Cancel() {
	h.cancel()
}

// Wait blocks until the run finishes or ctx ends.
func (h *RunHandle) Wait(ctx context.Context) (domain.RunResult, error) {
	select {
	case <-h.done:
		return h.Result(), nil
	case <-ctx.Done():
		return domain.RunResult{}, ctx.Err()
	}
}

// Result returns the terminal result, or a Running placeholder while the run
// is in flight.
func (h *RunHandle) Result() domain.RunResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.result.State == "" {
		return domain.RunResult{RunID: h.ID, Kind: h.Kind, State: domain.RunStateRunning, StartedAt: h.StartedAt}
	}
	return h.result
}

func (h *RunHandle) setResult(result domain.RunResult) {
	h.mu.Lock()
	h.result = result
	h.mu.Unlock()
}

// tally accumulates the outcome of a work loop.
type tally struct {
	attempted int
	succeeded int
	failures  []domain.TargetFailure
}

func (t *tally) fail(target string, err error) {
	t.failures = append(t.failures, domain.TargetFailure{Target: target, Err: err})
}
