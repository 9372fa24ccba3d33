package lastfm

import (
	"errors"

	"github.com/shkh/lastfm-go/lastfm"
)

// ErrNotAuthenticated is returned when an operation requires authentication.
var ErrNotAuthenticated = errors.New("not authenticated")

// UnknownError is the fallback message when the remote service fails
// without supplying one.
const UnknownError = "Unknown error"

// Common Last.fm API error codes.
const (
	ErrCodeAuthenticationFailed = 4
	ErrCodeOperationFailed      = 8
	ErrCodeInvalidSessionKey    = 9
	ErrCodeServiceOffline       = 11
	ErrCodeTempUnavailable      = 16
	ErrCodeRateLimitExceeded    = 29
)

// ErrorMessage collapses an error from this package to the message the
// remote service supplied, or UnknownError when there is none.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *lastfm.LastfmError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnknownError
}

// IsInvalidSession reports whether err indicates the session key is no
// longer valid and the user must re-authenticate.
func IsInvalidSession(err error) bool {
	var apiErr *lastfm.LastfmError
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrCodeInvalidSessionKey || apiErr.Code == ErrCodeAuthenticationFailed
	}
	return false
}
