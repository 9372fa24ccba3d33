package scrobbler

import (
	"context"

	"github.com/mpriess/scrobblekit/internal/lastfm"
)

// BatchSize is the maximum number of records sent in one remote call.
const BatchSize = 50

// Submission failure messages, stable for host-side matching.
const (
	msgSubmissionDisabled = "submission is disabled"
	msgNotAuthenticated   = "not authenticated"
	msgLimitReached       = "submission limit reached"
	msgWouldExceedLimit   = "submission would exceed the limit"
)

// SubmitResult is the outcome of one Submit call, covering the entire
// batch sequence rather than individual records.
type SubmitResult struct {
	Success      bool
	ErrorMessage string

	// BatchesAccepted and RecordsAccepted count what the remote service
	// accepted before any failure. Already-accepted batches are never
	// retried or rolled back; the host should trim them before
	// resubmitting the remainder.
	BatchesAccepted int
	RecordsAccepted int
}

// ProgressFunc reports submission progress. batch is 1-indexed; total is
// the number of batches the records split into.
type ProgressFunc func(batch, total int)

// Submit sends records to the remote service in fixed-size batches.
//
// Records are split into batches of 50 preserving input order and sent
// strictly sequentially. The first failing batch stops the sequence and
// its error message becomes the overall result; earlier batches stay
// accepted server-side. The quota cache is refreshed before the first
// batch and again after a fully successful run.
//
// Submission requires an enabled toggle, an authenticated session, and
// available quota; each is checked before any network request. No
// retries are performed here; retry timing belongs to the host.
func (s *Service) Submit(ctx context.Context, records []Record) SubmitResult {
	return s.SubmitWithProgress(ctx, records, nil)
}

// SubmitWithProgress is Submit with a per-batch progress callback.
func (s *Service) SubmitWithProgress(ctx context.Context, records []Record, progress ProgressFunc) SubmitResult {
	if len(records) == 0 {
		return SubmitResult{Success: true}
	}

	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	client, session, enabled := s.remoteState()
	if !enabled {
		return SubmitResult{ErrorMessage: msgSubmissionDisabled}
	}
	if !session.Authenticated() {
		return SubmitResult{ErrorMessage: msgNotAuthenticated}
	}

	s.quota.Refresh(ctx)
	if s.quota.HasReachedLimit() {
		s.logger.Warn().Int("count", s.quota.CurrentCount()).Msg("Submission limit reached")
		return SubmitResult{ErrorMessage: msgLimitReached}
	}
	if !s.quota.CanAccept(len(records)) {
		s.logger.Warn().
			Int("count", s.quota.CurrentCount()).
			Int("records", len(records)).
			Msg("Submission would exceed the limit")
		return SubmitResult{ErrorMessage: msgWouldExceedLimit}
	}

	total := (len(records) + BatchSize - 1) / BatchSize
	result := SubmitResult{}

	for start, batchNum := 0, 1; start < len(records); start, batchNum = start+BatchSize, batchNum+1 {
		end := start + BatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		if progress != nil {
			progress(batchNum, total)
		}

		scrobbles := make([]lastfm.Scrobble, len(batch))
		for i, r := range batch {
			scrobbles[i] = r.toScrobble()
		}

		if _, err := client.ScrobbleBatch(ctx, scrobbles); err != nil {
			s.logger.Error().Err(err).
				Int("batch", batchNum).
				Int("total", total).
				Msg("Batch submission failed")
			result.ErrorMessage = lastfm.ErrorMessage(err)
			return result
		}

		result.BatchesAccepted++
		result.RecordsAccepted += len(batch)
		s.logger.Debug().
			Int("batch", batchNum).
			Int("total", total).
			Int("records", len(batch)).
			Msg("Batch submitted")
	}

	s.quota.Refresh(ctx)
	result.Success = true
	return result
}
