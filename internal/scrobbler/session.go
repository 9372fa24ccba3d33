package scrobbler

// Credential store keys, shared with the original plugin storage layout.
const (
	keyAccountID  = "AccountId"
	keySessionKey = "SessionKey"
)

// Session is the authentication state for the remote service. The zero
// value is unauthenticated. A session with an account id but no token is
// unrepresentable: newSession normalizes an empty token to the zero value.
type Session struct {
	accountID string
	token     string
}

func newSession(accountID, token string) Session {
	if token == "" {
		return Session{}
	}
	return Session{accountID: accountID, token: token}
}

// Authenticated reports whether the session holds a token.
func (s Session) Authenticated() bool {
	return s.token != ""
}

// AccountID returns the display account id, or "" when unauthenticated.
func (s Session) AccountID() string {
	if !s.Authenticated() {
		return ""
	}
	return s.accountID
}

func (s Session) tokenValue() string {
	return s.token
}
