package scrobbler

import (
	"strings"
	"testing"
)

// recordingOpener captures opened URLs.
type recordingOpener struct {
	opened []string
}

func (r *recordingOpener) OpenLink(url string) error {
	r.opened = append(r.opened, url)
	return nil
}

func TestLinkURLs(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (string, error)
		want    string
		wantErr bool
	}{
		{
			name:  "artist",
			build: func() (string, error) { return ArtistURL("Sigur Rós") },
			want:  "https://www.last.fm/music/Sigur%20R%C3%B3s",
		},
		{
			name:  "album",
			build: func() (string, error) { return AlbumURL("AC/DC", "Back in Black") },
			want:  "https://www.last.fm/music/AC%2FDC/Back%20in%20Black",
		},
		{
			name:  "track with album",
			build: func() (string, error) { return TrackURL("A", "B", "T") },
			want:  "https://www.last.fm/music/A/B/T",
		},
		{
			name:  "track without album uses placeholder",
			build: func() (string, error) { return TrackURL("A", "", "T") },
			want:  "https://www.last.fm/music/A/_/T",
		},
		{
			name:  "tag",
			build: func() (string, error) { return TagURL("post rock") },
			want:  "https://www.last.fm/tag/post%20rock",
		},
		{
			name:    "empty artist",
			build:   func() (string, error) { return ArtistURL("") },
			wantErr: true,
		},
		{
			name:    "empty track",
			build:   func() (string, error) { return TrackURL("A", "B", "") },
			wantErr: true,
		},
		{
			name:    "empty tag",
			build:   func() (string, error) { return TagURL("") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.build()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTrackURLSegmentsAreEscapedIndependently(t *testing.T) {
	u, err := TrackURL("Simon & Garfunkel", "", "The 59th Street Bridge Song")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The placeholder sits literally between the escaped artist and track.
	if !strings.Contains(u, "/Simon%20&%20Garfunkel/_/") {
		t.Errorf("expected placeholder segment between escaped names, got %q", u)
	}
}

func TestOpenLinksDelegate(t *testing.T) {
	opener := &recordingOpener{}
	fake := &fakeClient{}

	st := createTestStore(t)
	svc, err := New(Config{
		PluginName: "test-plugin",
		LinkOpener: opener,
		NewClient: func(sessionKey string) (RemoteClient, error) {
			return fake, nil
		},
	}, st, st)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	if err := svc.OpenArtistLink("A"); err != nil {
		t.Fatalf("OpenArtistLink failed: %v", err)
	}
	if err := svc.OpenTrackLink("A", "", "T"); err != nil {
		t.Fatalf("OpenTrackLink failed: %v", err)
	}
	if err := svc.OpenTagLink("tag"); err != nil {
		t.Fatalf("OpenTagLink failed: %v", err)
	}
	if err := svc.OpenArtistLink(""); err == nil {
		t.Fatal("expected validation error for empty artist")
	}

	want := []string{
		"https://www.last.fm/music/A",
		"https://www.last.fm/music/A/_/T",
		"https://www.last.fm/tag/tag",
	}
	if len(opener.opened) != len(want) {
		t.Fatalf("expected %d opened links, got %v", len(want), opener.opened)
	}
	for i := range want {
		if opener.opened[i] != want[i] {
			t.Errorf("link %d: expected %q, got %q", i, want[i], opener.opened[i])
		}
	}
}
