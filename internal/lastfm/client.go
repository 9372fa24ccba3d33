// Package lastfm adapts the shkh/lastfm-go API client to the narrow
// remote contract the scrobbler core consumes: batch scrobbling, recent
// activity counts, track metadata lookups, and the desktop auth flow.
package lastfm

import (
	"context"
	"fmt"
	"time"

	"github.com/shkh/lastfm-go/lastfm"
)

// Config holds client configuration.
type Config struct {
	APIKey     string // Required: Last.fm API key
	APISecret  string // Required: Last.fm API secret
	SessionKey string // Optional: session key for authenticated requests
}

// Client wraps the Last.fm API client.
type Client struct {
	api        *lastfm.Api
	apiKey     string
	apiSecret  string
	sessionKey string
}

// Scrobble is a single play to submit.
type Scrobble struct {
	Artist      string
	Track       string
	Album       string
	AlbumArtist string
	Timestamp   time.Time
}

// BatchResult reports the outcome of a batch scrobble request.
type BatchResult struct {
	Accepted int
	Ignored  int
}

// TrackDetail holds the per-user fields of a track.getInfo response.
type TrackDetail struct {
	Loved     bool
	PlayCount int
}

// New creates a new Last.fm client.
//
// Returns an error if required configuration (APIKey, APISecret) is missing.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("lastfm: APIKey is required")
	}
	if cfg.APISecret == "" {
		return nil, fmt.Errorf("lastfm: APISecret is required")
	}

	api := lastfm.New(cfg.APIKey, cfg.APISecret)
	if cfg.SessionKey != "" {
		api.SetSession(cfg.SessionKey)
	}

	return &Client{
		api:        api,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		sessionKey: cfg.SessionKey,
	}, nil
}

// SetSessionKey sets the session key for authenticated requests.
func (c *Client) SetSessionKey(key string) {
	c.sessionKey = key
	c.api.SetSession(key)
}

// SessionKey returns the current session key.
func (c *Client) SessionKey() string {
	return c.sessionKey
}

// IsAuthenticated reports whether a session key is set.
func (c *Client) IsAuthenticated() bool {
	return c.sessionKey != ""
}

// AuthToken requests an authentication token from Last.fm. This is the
// first step of the desktop authorization flow.
func (c *Client) AuthToken(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	token, err := c.api.GetToken()
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return token, nil
}

// AuthURL returns the URL where the user authorizes the given token.
func (c *Client) AuthURL(token string) string {
	return fmt.Sprintf("https://www.last.fm/api/auth/?api_key=%s&token=%s", c.apiKey, token)
}

// SessionFromToken exchanges an authorized token for a session key and
// resolves the account name behind it.
func (c *Client) SessionFromToken(ctx context.Context, token string) (account, sessionKey string, err error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	if err := c.api.LoginWithToken(token); err != nil {
		return "", "", fmt.Errorf("get session: %w", err)
	}

	sessionKey = c.api.GetSessionKey()
	if sessionKey == "" {
		return "", "", fmt.Errorf("received empty session key")
	}
	c.sessionKey = sessionKey

	userInfo, err := c.api.User.GetInfo(nil)
	if err != nil {
		// Session is valid but the account name could not be resolved.
		return "unknown", sessionKey, nil
	}
	return userInfo.Name, sessionKey, nil
}

// ScrobbleBatch submits up to 50 plays in a single track.scrobble request.
func (c *Client) ScrobbleBatch(ctx context.Context, scrobbles []Scrobble) (BatchResult, error) {
	if !c.IsAuthenticated() {
		return BatchResult{}, ErrNotAuthenticated
	}
	if len(scrobbles) == 0 {
		return BatchResult{}, nil
	}
	if len(scrobbles) > 50 {
		return BatchResult{}, fmt.Errorf("cannot scrobble more than 50 tracks at once (got %d)", len(scrobbles))
	}
	if err := ctx.Err(); err != nil {
		return BatchResult{}, err
	}

	// Array-valued params produce the indexed batch form of track.scrobble.
	artists := make([]string, len(scrobbles))
	tracks := make([]string, len(scrobbles))
	timestamps := make([]int64, len(scrobbles))
	albums := make([]string, len(scrobbles))
	albumArtists := make([]string, len(scrobbles))

	for i, s := range scrobbles {
		artists[i] = s.Artist
		tracks[i] = s.Track
		timestamps[i] = s.Timestamp.Unix()
		albums[i] = s.Album
		albumArtists[i] = s.AlbumArtist
	}

	params := lastfm.P{
		"artist":      artists,
		"track":       tracks,
		"timestamp":   timestamps,
		"album":       albums,
		"albumArtist": albumArtists,
	}

	// Per-record ignore flags in the response are not inspected; a
	// non-error response counts the whole batch as accepted.
	_, err := c.api.Track.Scrobble(params)
	if err != nil {
		return BatchResult{}, fmt.Errorf("batch scrobble: %w", err)
	}
	return BatchResult{Accepted: len(scrobbles)}, nil
}

// RecentCount returns the total number of scrobbles the user has in the
// [from, to] window, as reported by user.getRecentTracks.
func (c *Client) RecentCount(ctx context.Context, user string, from, to time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	params := lastfm.P{
		"user":  user,
		"from":  from.Unix(),
		"to":    to.Unix(),
		"limit": 1,
	}

	result, err := c.api.User.GetRecentTracks(params)
	if err != nil {
		return 0, fmt.Errorf("get recent tracks: %w", err)
	}
	return result.Total, nil
}

// TrackDetail fetches the per-user loved flag and play count for a track.
func (c *Client) TrackDetail(ctx context.Context, artist, track, user string) (TrackDetail, error) {
	if err := ctx.Err(); err != nil {
		return TrackDetail{}, err
	}

	params := lastfm.P{
		"artist":   artist,
		"track":    track,
		"username": user,
	}

	result, err := c.api.Track.GetInfo(params)
	if err != nil {
		return TrackDetail{}, fmt.Errorf("get track info: %w", err)
	}

	detail := TrackDetail{Loved: result.UserLoved == "1"}
	playCount := 0
	if _, err := fmt.Sscanf(result.UserPlayCount, "%d", &playCount); err == nil {
		detail.PlayCount = playCount
	}
	return detail, nil
}

// SetLoved loves or unloves a track for the authenticated user.
func (c *Client) SetLoved(ctx context.Context, artist, track string, loved bool) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := lastfm.P{
		"artist": artist,
		"track":  track,
	}

	var err error
	if loved {
		err = c.api.Track.Love(params)
	} else {
		err = c.api.Track.UnLove(params)
	}
	if err != nil {
		return fmt.Errorf("set loved: %w", err)
	}
	return nil
}

// ArtistTags returns the top tag names for an artist.
func (c *Client) ArtistTags(ctx context.Context, artist string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := c.api.Artist.GetTopTags(lastfm.P{"artist": artist})
	if err != nil {
		return nil, fmt.Errorf("get artist tags: %w", err)
	}

	tags := make([]string, 0, len(result.Tags))
	for _, t := range result.Tags {
		tags = append(tags, t.Name)
	}
	return tags, nil
}

// AlbumTags returns the top tag names for an album.
func (c *Client) AlbumTags(ctx context.Context, artist, album string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := c.api.Album.GetTopTags(lastfm.P{"artist": artist, "album": album})
	if err != nil {
		return nil, fmt.Errorf("get album tags: %w", err)
	}

	tags := make([]string, 0, len(result.Tags))
	for _, t := range result.Tags {
		tags = append(tags, t.Name)
	}
	return tags, nil
}

// TrackTags returns the top tag names for a track.
func (c *Client) TrackTags(ctx context.Context, artist, track string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := c.api.Track.GetTopTags(lastfm.P{"artist": artist, "track": track})
	if err != nil {
		return nil, fmt.Errorf("get track tags: %w", err)
	}

	tags := make([]string, 0, len(result.Tags))
	for _, t := range result.Tags {
		tags = append(tags, t.Name)
	}
	return tags, nil
}

// UpdateNowPlaying sends a "now playing" notification. It does not count
// as a scrobble and does not affect play counts.
func (c *Client) UpdateNowPlaying(ctx context.Context, s Scrobble) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := lastfm.P{
		"artist": s.Artist,
		"track":  s.Track,
	}
	if s.Album != "" {
		params["album"] = s.Album
	}
	if s.AlbumArtist != "" && s.AlbumArtist != s.Artist {
		params["albumArtist"] = s.AlbumArtist
	}

	_, err := c.api.Track.UpdateNowPlaying(params)
	if err != nil {
		return fmt.Errorf("update now playing: %w", err)
	}
	return nil
}
