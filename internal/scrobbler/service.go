// Package scrobbler implements the session-authenticated submission core
// for a remote music-tracking service: credential lifecycle, a rolling
// daily submission quota, batched record submission with partial-failure
// reporting, and a metadata query facade.
package scrobbler

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mpriess/scrobblekit/internal/lastfm"
	"github.com/mpriess/scrobblekit/internal/store"
)

// Config holds service construction parameters.
type Config struct {
	APIKey     string // Required: remote service API key
	APISecret  string // Required: remote service API secret
	PluginName string // Settings record name; defaults to "scrobblekit"

	Logger     zerolog.Logger
	AuthFlow   AuthFlow   // Optional: required only for Authenticate
	LinkOpener LinkOpener // Optional: required only for the Open*Link calls

	// NewClient overrides remote client construction, used by tests.
	NewClient func(sessionKey string) (RemoteClient, error)
}

// Service is the host-facing surface of the core. All its operations
// return definite results or error values; nothing panics across the
// host boundary.
//
// Submit calls are serialized internally; concurrent submissions would
// race on the shared quota cache and could jointly exceed the server-side
// limit.
type Service struct {
	mu        sync.Mutex
	submitMu  sync.Mutex
	creds     store.Credentials
	settings  store.Settings
	newClient func(sessionKey string) (RemoteClient, error)
	authFlow  AuthFlow
	links     LinkOpener
	logger    zerolog.Logger
	name      string

	session       Session
	client        RemoteClient
	prefs         Preferences
	prefListeners []func(bool)

	quota *QuotaTracker
}

// New creates the service with an unauthenticated, unbound remote client.
// Call Load to restore a persisted session.
func New(cfg Config, creds store.Credentials, settings store.Settings) (*Service, error) {
	if creds == nil || settings == nil {
		return nil, fmt.Errorf("scrobbler: credential and settings stores are required")
	}

	name := cfg.PluginName
	if name == "" {
		name = "scrobblekit"
	}

	newClient := cfg.NewClient
	if newClient == nil {
		if cfg.APIKey == "" || cfg.APISecret == "" {
			return nil, fmt.Errorf("scrobbler: APIKey and APISecret are required")
		}
		newClient = func(sessionKey string) (RemoteClient, error) {
			return lastfm.New(lastfm.Config{
				APIKey:     cfg.APIKey,
				APISecret:  cfg.APISecret,
				SessionKey: sessionKey,
			})
		}
	}

	client, err := newClient("")
	if err != nil {
		return nil, fmt.Errorf("scrobbler: failed to create remote client: %w", err)
	}

	logger := cfg.Logger.With().Str("component", "scrobbler").Logger()

	return &Service{
		creds:     creds,
		settings:  settings,
		newClient: newClient,
		authFlow:  cfg.AuthFlow,
		links:     cfg.LinkOpener,
		logger:    logger,
		name:      name,
		client:    client,
		prefs:     Preferences{SubmissionEnabled: true},
		quota:     newQuotaTracker(logger),
	}, nil
}

// Load restores the session and preferences from storage. A missing
// session is not an error: the service simply stays unauthenticated.
// When a session token is present, the remote client is bound to it and
// the quota cache refreshed.
func (s *Service) Load(ctx context.Context) error {
	accountID, _, err := s.creds.Get(ctx, keyAccountID)
	if err != nil {
		return fmt.Errorf("failed to load account id: %w", err)
	}
	token, _, err := s.creds.Get(ctx, keySessionKey)
	if err != nil {
		return fmt.Errorf("failed to load session key: %w", err)
	}

	prefs := Preferences{SubmissionEnabled: true}
	if err := s.settings.GetOrCreate(ctx, s.name, &prefs); err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	session := newSession(accountID, token)
	if err := s.setSession(session); err != nil {
		return err
	}

	s.mu.Lock()
	s.prefs = prefs
	s.mu.Unlock()

	if session.Authenticated() {
		s.logger.Info().Str("account", session.AccountID()).Msg("Session restored")
		s.quota.Refresh(ctx)
	} else {
		s.logger.Debug().Msg("No stored session, starting unauthenticated")
	}
	return nil
}

// Save persists the current session and preferences. Callable at any
// time, including before Load: an unauthenticated session removes the
// stored credentials.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	session := s.session
	prefs := s.prefs
	s.mu.Unlock()

	if session.Authenticated() {
		if err := s.creds.Save(ctx, keyAccountID, session.AccountID()); err != nil {
			return fmt.Errorf("failed to save account id: %w", err)
		}
		if err := s.creds.Save(ctx, keySessionKey, session.tokenValue()); err != nil {
			return fmt.Errorf("failed to save session key: %w", err)
		}
	} else {
		if err := s.creds.Remove(ctx, keyAccountID); err != nil {
			return fmt.Errorf("failed to remove account id: %w", err)
		}
		if err := s.creds.Remove(ctx, keySessionKey); err != nil {
			return fmt.Errorf("failed to remove session key: %w", err)
		}
	}

	if err := s.settings.Set(ctx, s.name, prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// Authenticate runs the external authorization flow and, on success,
// replaces the session and rebinds the remote client. On failure the
// prior state is left unchanged.
func (s *Service) Authenticate(ctx context.Context) error {
	if s.authFlow == nil {
		return fmt.Errorf("no authorization flow configured")
	}

	accountID, token, err := s.authFlow.Authenticate(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Authorization flow failed")
		return fmt.Errorf("authorization failed: %w", err)
	}

	session := newSession(accountID, token)
	if !session.Authenticated() {
		s.logger.Error().Msg("Authorization flow returned an empty session key")
		return fmt.Errorf("authorization returned an empty session key")
	}

	if err := s.setSession(session); err != nil {
		return err
	}

	s.logger.Info().Str("account", session.AccountID()).Msg("Authenticated")
	s.quota.Refresh(ctx)
	return nil
}

// Logout clears the session in memory and unbinds the remote client.
// Persistence happens on the next Save.
func (s *Service) Logout() {
	if err := s.setSession(Session{}); err != nil {
		// Rebinding to an unauthenticated client cannot fail with a
		// factory that already produced one, but keep the log honest.
		s.logger.Error().Err(err).Msg("Failed to reset remote client on logout")
	}
	s.logger.Info().Msg("Logged out")
}

// Authenticated reports whether a session token is held.
func (s *Service) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Authenticated()
}

// AccountID returns the display account id, or "" when unauthenticated.
func (s *Service) AccountID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.AccountID()
}

// Quota exposes the quota tracker (current count, limit, change
// notification).
func (s *Service) Quota() *QuotaTracker {
	return s.quota
}

// SubmissionEnabled reports whether record submission is enabled.
func (s *Service) SubmissionEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.SubmissionEnabled
}

// SetSubmissionEnabled toggles record submission. Listeners registered
// with OnSubmissionEnabledChange are invoked synchronously on change.
// The new value is persisted on the next Save.
func (s *Service) SetSubmissionEnabled(enabled bool) {
	s.mu.Lock()
	changed := s.prefs.SubmissionEnabled != enabled
	s.prefs.SubmissionEnabled = enabled
	listeners := s.prefListeners
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(enabled)
	}
}

// OnSubmissionEnabledChange registers fn to be invoked synchronously when
// the submission toggle changes.
func (s *Service) OnSubmissionEnabledChange(fn func(enabled bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefListeners = append(s.prefListeners, fn)
}

// setSession swaps the session and rebinds the remote client and quota
// source to it. The old state is kept when client construction fails.
func (s *Service) setSession(session Session) error {
	client, err := s.newClient(session.tokenValue())
	if err != nil {
		return fmt.Errorf("failed to bind remote client: %w", err)
	}

	s.mu.Lock()
	s.session = session
	s.client = client
	s.mu.Unlock()

	if session.Authenticated() {
		account := session.AccountID()
		s.quota.bind(func(ctx context.Context) (int, error) {
			now := timeNow()
			return client.RecentCount(ctx, account, windowStart(now), now)
		})
	} else {
		s.quota.bind(nil)
	}
	return nil
}

// remoteState snapshots the fields a single operation needs.
func (s *Service) remoteState() (RemoteClient, Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client, s.session, s.prefs.SubmissionEnabled
}
