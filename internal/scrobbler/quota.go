package scrobbler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// SubmissionLimit is the service-defined ceiling on submissions
	// accepted in any trailing 24-hour window. Not configurable.
	SubmissionLimit = 3000

	quotaWindow = 24 * time.Hour
)

// QuotaTracker caches the number of submissions made in the current
// rolling window, refreshed from server-reported history. The cached
// count is a best-effort snapshot: it is only trustworthy immediately
// after a Refresh.
type QuotaTracker struct {
	mu        sync.Mutex
	count     int
	source    func(ctx context.Context) (int, error)
	listeners []func(int)
	logger    zerolog.Logger
}

func newQuotaTracker(logger zerolog.Logger) *QuotaTracker {
	return &QuotaTracker{
		logger: logger.With().Str("component", "quota").Logger(),
	}
}

// bind sets the server history query used by Refresh, or detaches it when
// source is nil (unauthenticated). Detaching resets the cached count.
func (t *QuotaTracker) bind(source func(ctx context.Context) (int, error)) {
	t.mu.Lock()
	t.source = source
	t.mu.Unlock()
	if source == nil {
		t.setCount(0)
	}
}

// Refresh recomputes the cached count from the trailing 24-hour window
// ending now. When unauthenticated the count is reset to 0 and a warning
// is logged; quota is meaningless without a session. On query failure the
// count is also reset to 0 (fail-safe-empty): transient history errors
// bias toward allowing submission attempts, and the server still enforces
// the real limit.
func (t *QuotaTracker) Refresh(ctx context.Context) {
	t.mu.Lock()
	source := t.source
	t.mu.Unlock()

	if source == nil {
		t.logger.Warn().Msg("Quota refresh without a session, count reset to 0")
		t.setCount(0)
		return
	}

	count, err := source(ctx)
	if err != nil {
		t.logger.Warn().Err(err).Msg("Quota refresh failed, count reset to 0")
		t.setCount(0)
		return
	}

	t.logger.Debug().Int("count", count).Msg("Quota refreshed")
	t.setCount(count)
}

// CurrentCount returns the cached submission count.
func (t *QuotaTracker) CurrentCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Limit returns the submission limit per rolling window.
func (t *QuotaTracker) Limit() int {
	return SubmissionLimit
}

// HasReachedLimit reports whether the cached count has reached the limit.
func (t *QuotaTracker) HasReachedLimit() bool {
	return t.CurrentCount() >= SubmissionLimit
}

// CanAccept reports whether n more submissions fit under the limit
// according to the cached count.
func (t *QuotaTracker) CanAccept(n int) bool {
	count := t.CurrentCount()
	if count >= SubmissionLimit {
		return false
	}
	return count+n <= SubmissionLimit
}

// OnCountChange registers fn to be invoked synchronously whenever the
// cached count changes.
func (t *QuotaTracker) OnCountChange(fn func(count int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

func (t *QuotaTracker) setCount(count int) {
	t.mu.Lock()
	changed := count != t.count
	t.count = count
	listeners := t.listeners
	t.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(count)
	}
}

// windowStart returns the start of the rolling window ending at now.
func windowStart(now time.Time) time.Time {
	return now.Add(-quotaWindow)
}

// timeNow is swapped out by tests.
var timeNow = time.Now
