package scrobbler

import (
	"context"
	"errors"
	"testing"
)

func TestSubmitEmpty(t *testing.T) {
	fake := &fakeClient{}
	svc := createTestService(t, fake, nil)

	result := svc.Submit(context.Background(), nil)
	if !result.Success {
		t.Fatalf("expected success for empty submission, got %+v", result)
	}
	if fake.batchCount() != 0 {
		t.Errorf("expected no remote calls, got %d", fake.batchCount())
	}
	if fake.recentCalls != 0 {
		t.Errorf("expected no quota queries, got %d", fake.recentCalls)
	}
}

func TestSubmitRequiresAuthentication(t *testing.T) {
	fake := &fakeClient{}
	svc := createTestService(t, fake, nil)

	result := svc.Submit(context.Background(), makeRecords(1))
	if result.Success {
		t.Fatal("expected failure without a session")
	}
	if result.ErrorMessage != msgNotAuthenticated {
		t.Errorf("expected %q, got %q", msgNotAuthenticated, result.ErrorMessage)
	}
	if fake.batchCount() != 0 {
		t.Errorf("expected no remote calls, got %d", fake.batchCount())
	}
}

func TestSubmitDisabled(t *testing.T) {
	fake := &fakeClient{}
	svc := createTestService(t, fake, &fakeAuthFlow{account: "alice", key: "sk"})
	authenticate(t, svc)

	svc.SetSubmissionEnabled(false)
	result := svc.Submit(context.Background(), makeRecords(3))
	if result.Success {
		t.Fatal("expected failure while submission is disabled")
	}
	if result.ErrorMessage != msgSubmissionDisabled {
		t.Errorf("expected %q, got %q", msgSubmissionDisabled, result.ErrorMessage)
	}
	if fake.batchCount() != 0 {
		t.Errorf("expected no remote calls, got %d", fake.batchCount())
	}

	// Re-enabling lets the same submission through.
	svc.SetSubmissionEnabled(true)
	result = svc.Submit(context.Background(), makeRecords(3))
	if !result.Success {
		t.Fatalf("expected success after re-enabling, got %+v", result)
	}
	if fake.batchCount() != 1 {
		t.Errorf("expected 1 remote call, got %d", fake.batchCount())
	}
}

func TestSubmitBatching(t *testing.T) {
	tests := []struct {
		name        string
		records     int
		wantBatches int
	}{
		{name: "single partial batch", records: 3, wantBatches: 1},
		{name: "exactly one batch", records: 50, wantBatches: 1},
		{name: "one over", records: 51, wantBatches: 2},
		{name: "several batches", records: 120, wantBatches: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeClient{}
			svc := createTestService(t, fake, &fakeAuthFlow{account: "alice", key: "sk"})
			authenticate(t, svc)

			var progress [][2]int
			result := svc.SubmitWithProgress(context.Background(), makeRecords(tt.records), func(batch, total int) {
				progress = append(progress, [2]int{batch, total})
			})
			if !result.Success {
				t.Fatalf("expected success, got %+v", result)
			}
			if result.BatchesAccepted != tt.wantBatches {
				t.Errorf("expected %d batches accepted, got %d", tt.wantBatches, result.BatchesAccepted)
			}
			if result.RecordsAccepted != tt.records {
				t.Errorf("expected %d records accepted, got %d", tt.records, result.RecordsAccepted)
			}
			if fake.batchCount() != tt.wantBatches {
				t.Fatalf("expected %d remote calls, got %d", tt.wantBatches, fake.batchCount())
			}

			// All batches are full except possibly the last, and input
			// order is preserved.
			remaining := tt.records
			for i, batch := range fake.batches {
				want := BatchSize
				if remaining < BatchSize {
					want = remaining
				}
				if len(batch) != want {
					t.Errorf("batch %d: expected %d records, got %d", i+1, want, len(batch))
				}
				remaining -= len(batch)
			}

			for i, p := range progress {
				if p[0] != i+1 {
					t.Errorf("progress call %d: expected batch %d, got %d", i, i+1, p[0])
				}
				if p[1] != tt.wantBatches {
					t.Errorf("progress call %d: expected total %d, got %d", i, tt.wantBatches, p[1])
				}
			}
		})
	}
}

func TestSubmitQuota(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		records int
		wantMsg string
	}{
		{name: "limit reached", count: SubmissionLimit, records: 1, wantMsg: msgLimitReached},
		{name: "would exceed", count: SubmissionLimit - 1, records: 2, wantMsg: msgWouldExceedLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeClient{recentCount: tt.count}
			svc := createTestService(t, fake, &fakeAuthFlow{account: "alice", key: "sk"})
			authenticate(t, svc)

			result := svc.Submit(context.Background(), makeRecords(tt.records))
			if result.Success {
				t.Fatal("expected quota rejection")
			}
			if result.ErrorMessage != tt.wantMsg {
				t.Errorf("expected %q, got %q", tt.wantMsg, result.ErrorMessage)
			}
			if fake.batchCount() != 0 {
				t.Errorf("expected no remote batch calls, got %d", fake.batchCount())
			}
		})
	}
}

func TestSubmitExactlyAtLimit(t *testing.T) {
	fake := &fakeClient{recentCount: SubmissionLimit - 2}
	svc := createTestService(t, fake, &fakeAuthFlow{account: "alice", key: "sk"})
	authenticate(t, svc)

	result := svc.Submit(context.Background(), makeRecords(2))
	if !result.Success {
		t.Fatalf("expected success filling the window exactly, got %+v", result)
	}
	if svc.Quota().CurrentCount() != SubmissionLimit {
		t.Errorf("expected count %d after refresh, got %d", SubmissionLimit, svc.Quota().CurrentCount())
	}
	if !svc.Quota().HasReachedLimit() {
		t.Error("expected limit to be reached")
	}
}

func TestSubmitStopsOnFirstFailure(t *testing.T) {
	fake := &fakeClient{failAtBatch: 2, batchErr: errors.New("Service Offline")}
	svc := createTestService(t, fake, &fakeAuthFlow{account: "alice", key: "sk"})
	authenticate(t, svc)

	result := svc.Submit(context.Background(), makeRecords(130))
	if result.Success {
		t.Fatal("expected failure")
	}
	if fake.batchCount() != 2 {
		t.Errorf("expected exactly 2 remote calls, got %d", fake.batchCount())
	}
	if result.ErrorMessage != "Service Offline" {
		t.Errorf("expected failing batch's error, got %q", result.ErrorMessage)
	}
	if result.BatchesAccepted != 1 {
		t.Errorf("expected 1 accepted batch, got %d", result.BatchesAccepted)
	}
	if result.RecordsAccepted != BatchSize {
		t.Errorf("expected %d accepted records, got %d", BatchSize, result.RecordsAccepted)
	}
}

func TestSubmitRefreshesQuotaAfterSuccess(t *testing.T) {
	fake := &fakeClient{recentCount: 10}
	svc := createTestService(t, fake, &fakeAuthFlow{account: "alice", key: "sk"})
	authenticate(t, svc)

	var counts []int
	svc.Quota().OnCountChange(func(count int) {
		counts = append(counts, count)
	})

	result := svc.Submit(context.Background(), makeRecords(5))
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if got := svc.Quota().CurrentCount(); got != 15 {
		t.Errorf("expected refreshed count 15, got %d", got)
	}
	if len(counts) == 0 || counts[len(counts)-1] != 15 {
		t.Errorf("expected change notification ending at 15, got %v", counts)
	}
}
