package scrobbler

import (
	"errors"
	"net/url"
)

const siteBaseURL = "https://www.last.fm"

// placeholderSegment stands in for a missing album in a track URL so the
// positional path structure is preserved.
const placeholderSegment = "_"

// ArtistURL builds the public page URL for an artist.
func ArtistURL(artist string) (string, error) {
	if artist == "" {
		return "", errArtistRequired
	}
	return siteBaseURL + "/music/" + url.PathEscape(artist), nil
}

// AlbumURL builds the public page URL for an album.
func AlbumURL(artist, album string) (string, error) {
	if artist == "" {
		return "", errArtistRequired
	}
	if album == "" {
		return "", errAlbumRequired
	}
	return siteBaseURL + "/music/" + url.PathEscape(artist) + "/" + url.PathEscape(album), nil
}

// TrackURL builds the public page URL for a track. An empty album is
// replaced by the placeholder segment.
func TrackURL(artist, album, track string) (string, error) {
	if artist == "" {
		return "", errArtistRequired
	}
	if track == "" {
		return "", errTrackRequired
	}

	albumSegment := placeholderSegment
	if album != "" {
		albumSegment = url.PathEscape(album)
	}
	return siteBaseURL + "/music/" + url.PathEscape(artist) + "/" + albumSegment + "/" + url.PathEscape(track), nil
}

// TagURL builds the public page URL for a tag.
func TagURL(tag string) (string, error) {
	if tag == "" {
		return "", errTagRequired
	}
	return siteBaseURL + "/tag/" + url.PathEscape(tag), nil
}

// OpenArtistLink opens the artist page in the external link opener.
func (s *Service) OpenArtistLink(artist string) error {
	u, err := ArtistURL(artist)
	if err != nil {
		return err
	}
	return s.openLink(u)
}

// OpenAlbumLink opens the album page in the external link opener.
func (s *Service) OpenAlbumLink(artist, album string) error {
	u, err := AlbumURL(artist, album)
	if err != nil {
		return err
	}
	return s.openLink(u)
}

// OpenTrackLink opens the track page in the external link opener.
func (s *Service) OpenTrackLink(artist, album, track string) error {
	u, err := TrackURL(artist, album, track)
	if err != nil {
		return err
	}
	return s.openLink(u)
}

// OpenTagLink opens the tag page in the external link opener.
func (s *Service) OpenTagLink(tag string) error {
	u, err := TagURL(tag)
	if err != nil {
		return err
	}
	return s.openLink(u)
}

func (s *Service) openLink(u string) error {
	if s.links == nil {
		return errors.New("no link opener configured")
	}
	return s.links.OpenLink(u)
}
