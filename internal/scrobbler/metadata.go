package scrobbler

import (
	"context"
	"errors"

	"github.com/mpriess/scrobblekit/internal/lastfm"
)

// Validation errors returned before any network call is made.
var (
	errArtistRequired = errors.New("artist name is required")
	errTrackRequired  = errors.New("track name is required")
	errAlbumRequired  = errors.New("album name is required")
	errTagRequired    = errors.New("tag name is required")

	errNotAuthenticated = errors.New(msgNotAuthenticated)
)

// Loved reports whether the authenticated user has loved the track.
// Returns false when the remote response omits the flag.
func (s *Service) Loved(ctx context.Context, artist, track string) (bool, error) {
	if artist == "" {
		return false, errArtistRequired
	}
	if track == "" {
		return false, errTrackRequired
	}

	client, session, _ := s.remoteState()
	if !session.Authenticated() {
		return false, errNotAuthenticated
	}

	detail, err := client.TrackDetail(ctx, artist, track, session.AccountID())
	if err != nil {
		return false, remoteError(err)
	}
	return detail.Loved, nil
}

// SetLoved loves or unloves the track for the authenticated user.
func (s *Service) SetLoved(ctx context.Context, artist, track string, loved bool) error {
	if artist == "" {
		return errArtistRequired
	}
	if track == "" {
		return errTrackRequired
	}

	client, session, _ := s.remoteState()
	if !session.Authenticated() {
		return errNotAuthenticated
	}

	if err := client.SetLoved(ctx, artist, track, loved); err != nil {
		return remoteError(err)
	}
	return nil
}

// PlayCount returns the authenticated user's play count for the track.
// Returns 0 when the remote response omits the count.
func (s *Service) PlayCount(ctx context.Context, artist, track string) (int, error) {
	if artist == "" {
		return 0, errArtistRequired
	}
	if track == "" {
		return 0, errTrackRequired
	}

	client, session, _ := s.remoteState()
	if !session.Authenticated() {
		return 0, errNotAuthenticated
	}

	detail, err := client.TrackDetail(ctx, artist, track, session.AccountID())
	if err != nil {
		return 0, remoteError(err)
	}
	return detail.PlayCount, nil
}

// ArtistTags returns the top tags for an artist. The tag collection is
// never nil: lookups that fail return an empty collection with the error.
func (s *Service) ArtistTags(ctx context.Context, artist string) ([]string, error) {
	if artist == "" {
		return []string{}, errArtistRequired
	}

	client, _, _ := s.remoteState()
	tags, err := client.ArtistTags(ctx, artist)
	if err != nil {
		return []string{}, remoteError(err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// AlbumTags returns the top tags for an album.
func (s *Service) AlbumTags(ctx context.Context, artist, album string) ([]string, error) {
	if artist == "" {
		return []string{}, errArtistRequired
	}
	if album == "" {
		return []string{}, errAlbumRequired
	}

	client, _, _ := s.remoteState()
	tags, err := client.AlbumTags(ctx, artist, album)
	if err != nil {
		return []string{}, remoteError(err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// TrackTags returns the top tags for a track.
func (s *Service) TrackTags(ctx context.Context, artist, track string) ([]string, error) {
	if artist == "" {
		return []string{}, errArtistRequired
	}
	if track == "" {
		return []string{}, errTrackRequired
	}

	client, _, _ := s.remoteState()
	tags, err := client.TrackTags(ctx, artist, track)
	if err != nil {
		return []string{}, remoteError(err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// UpdateNowPlaying reports the record as currently playing. Does not
// count toward the submission quota.
func (s *Service) UpdateNowPlaying(ctx context.Context, record Record) error {
	if record.Artist == "" {
		return errArtistRequired
	}
	if record.Track == "" {
		return errTrackRequired
	}

	client, session, _ := s.remoteState()
	if !session.Authenticated() {
		return errNotAuthenticated
	}

	if err := client.UpdateNowPlaying(ctx, record.toScrobble()); err != nil {
		return remoteError(err)
	}
	return nil
}

// remoteError collapses a remote failure to the message the service
// supplied, or the generic fallback when it supplied none.
func remoteError(err error) error {
	return errors.New(lastfm.ErrorMessage(err))
}
