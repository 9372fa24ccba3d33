package scrobbler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mpriess/scrobblekit/internal/lastfm"
	"github.com/mpriess/scrobblekit/internal/store"
)

// fakeClient is an in-memory RemoteClient recording every call.
type fakeClient struct {
	mu sync.Mutex

	recentCount  int
	recentErr    error
	recentCalls  int
	batches      [][]lastfm.Scrobble
	failAtBatch  int // 1-indexed batch that fails; 0 = never
	batchErr     error
	detail       lastfm.TrackDetail
	detailErr    error
	detailCalls  int
	tags         []string
	tagsErr      error
	tagsCalls    int
	lovedUpdates []bool
	nowPlaying   []lastfm.Scrobble
}

func (f *fakeClient) ScrobbleBatch(ctx context.Context, scrobbles []lastfm.Scrobble) (lastfm.BatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	batch := make([]lastfm.Scrobble, len(scrobbles))
	copy(batch, scrobbles)
	f.batches = append(f.batches, batch)

	if f.failAtBatch > 0 && len(f.batches) == f.failAtBatch {
		err := f.batchErr
		if err == nil {
			err = errors.New("batch failed")
		}
		return lastfm.BatchResult{}, err
	}

	f.recentCount += len(scrobbles)
	return lastfm.BatchResult{Accepted: len(scrobbles)}, nil
}

func (f *fakeClient) RecentCount(ctx context.Context, user string, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recentCalls++
	if f.recentErr != nil {
		return 0, f.recentErr
	}
	return f.recentCount, nil
}

func (f *fakeClient) TrackDetail(ctx context.Context, artist, track, user string) (lastfm.TrackDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	if f.detailErr != nil {
		return lastfm.TrackDetail{}, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeClient) SetLoved(ctx context.Context, artist, track string, loved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lovedUpdates = append(f.lovedUpdates, loved)
	return nil
}

func (f *fakeClient) ArtistTags(ctx context.Context, artist string) ([]string, error) {
	return f.topTags()
}

func (f *fakeClient) AlbumTags(ctx context.Context, artist, album string) ([]string, error) {
	return f.topTags()
}

func (f *fakeClient) TrackTags(ctx context.Context, artist, track string) ([]string, error) {
	return f.topTags()
}

func (f *fakeClient) topTags() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagsCalls++
	if f.tagsErr != nil {
		return nil, f.tagsErr
	}
	return f.tags, nil
}

func (f *fakeClient) UpdateNowPlaying(ctx context.Context, s lastfm.Scrobble) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nowPlaying = append(f.nowPlaying, s)
	return nil
}

func (f *fakeClient) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

// fakeAuthFlow returns a fixed authorization result.
type fakeAuthFlow struct {
	account string
	key     string
	err     error
}

func (f *fakeAuthFlow) Authenticate(ctx context.Context) (string, string, error) {
	return f.account, f.key, f.err
}

// createTestStore creates an in-memory store for testing.
func createTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open(":memory:", "test-plugin")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// createTestService wires a service around the fake client and an
// in-memory store.
func createTestService(t *testing.T, fake *fakeClient, flow AuthFlow) *Service {
	t.Helper()
	return createTestServiceWithStore(t, fake, flow, createTestStore(t))
}

func createTestServiceWithStore(t *testing.T, fake *fakeClient, flow AuthFlow, st *store.Store) *Service {
	t.Helper()

	svc, err := New(Config{
		PluginName: "test-plugin",
		Logger:     zerolog.Nop(),
		AuthFlow:   flow,
		NewClient: func(sessionKey string) (RemoteClient, error) {
			return fake, nil
		},
	}, st, st)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

// authenticate logs the service in through the fake flow.
func authenticate(t *testing.T, svc *Service) {
	t.Helper()

	if err := svc.Authenticate(context.Background()); err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	if !svc.Authenticated() {
		t.Fatal("expected service to be authenticated")
	}
}

// makeRecords builds n distinct records with ascending timestamps.
func makeRecords(n int) []Record {
	base := time.Unix(1700000000, 0)
	records := make([]Record, n)
	for i := range records {
		records[i] = Record{
			Artist:    "Artist",
			Track:     "Track",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return records
}
