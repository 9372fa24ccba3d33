package scrobbler

import (
	"context"
	"time"

	"github.com/mpriess/scrobblekit/internal/lastfm"
)

// RemoteClient is the narrow contract the core needs from the remote
// music-tracking service. *lastfm.Client satisfies it; tests use fakes.
type RemoteClient interface {
	ScrobbleBatch(ctx context.Context, scrobbles []lastfm.Scrobble) (lastfm.BatchResult, error)
	RecentCount(ctx context.Context, user string, from, to time.Time) (int, error)
	TrackDetail(ctx context.Context, artist, track, user string) (lastfm.TrackDetail, error)
	SetLoved(ctx context.Context, artist, track string, loved bool) error
	ArtistTags(ctx context.Context, artist string) ([]string, error)
	AlbumTags(ctx context.Context, artist, album string) ([]string, error)
	TrackTags(ctx context.Context, artist, track string) ([]string, error)
	UpdateNowPlaying(ctx context.Context, s lastfm.Scrobble) error
}

var _ RemoteClient = (*lastfm.Client)(nil)

// AuthFlow is the interactive authorization flow, assumed to open a
// browser or consent screen out of process.
type AuthFlow interface {
	Authenticate(ctx context.Context) (accountID, sessionKey string, err error)
}

// LinkOpener launches an external URL, fire and forget.
type LinkOpener interface {
	OpenLink(url string) error
}

// Record is a single play event to report.
type Record struct {
	Artist      string
	Track       string
	Timestamp   time.Time
	Album       string
	AlbumArtist string
}

// Preferences are the host-toggleable settings persisted alongside the
// session.
type Preferences struct {
	SubmissionEnabled bool `json:"submission_enabled"`
}

func (r Record) toScrobble() lastfm.Scrobble {
	return lastfm.Scrobble{
		Artist:      r.Artist,
		Track:       r.Track,
		Album:       r.Album,
		AlbumArtist: r.AlbumArtist,
		Timestamp:   r.Timestamp,
	}
}
