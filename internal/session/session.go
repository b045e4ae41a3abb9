package session

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/api"
	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/logger"
	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/tokenstore"
)

// State is the bootstrap state machine position.
type State int

const (
	// StateUninitialized means Bootstrap has not run yet.
	StateUninitialized State = iota
	// StateChecking means a stored credential is being validated.
	StateChecking
	// StateAuthenticated means a session with a resolved role exists.
	StateAuthenticated
	// StateUnauthenticated means no usable credential exists.
	StateUnauthenticated
	// StateConnectionError means the backend could not be reached; the
	// stored credential may still be valid and has not been cleared.
	StateConnectionError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateConnectionError:
		return "connection_error"
	default:
		return "unknown"
	}
}

// Session is the in-memory authenticated state: a resolved role, the user
// record, and the credential it was validated with. It is never persisted.
type Session struct {
	Role    Role
	Profile *api.UserProfile
	Token   string
}

// Manager owns the bootstrap state machine. It holds the token store and
// the API client for one backend base address; switching endpoints means
// constructing a new Manager, so no in-flight assumption survives a switch.
type Manager struct {
	client *api.Client
	tokens tokenstore.TokenStore
	log    zerolog.Logger

	state   State
	session *Session
	lastErr error
}

// NewManager creates a Manager in StateUninitialized.
func NewManager(client *api.Client, tokens tokenstore.TokenStore) *Manager {
	return &Manager{
		client: client,
		tokens: tokens,
		log:    logger.Get(),
		state:  StateUninitialized,
	}
}

// State returns the current state.
func (m *Manager) State() State {
	return m.state
}

// Session returns the active session, or nil outside StateAuthenticated.
func (m *Manager) Session() *Session {
	return m.session
}

// Err returns the failure that produced the current state, if any.
func (m *Manager) Err() error {
	return m.lastErr
}

// Client returns the API client the manager validates against.
func (m *Manager) Client() *api.Client {
	return m.client
}

// Bootstrap validates any stored credential and settles the state machine.
// With no stored credential it transitions straight to StateUnauthenticated
// without touching the network. Connectivity failures keep the credential;
// every other failure clears it.
func (m *Manager) Bootstrap(ctx context.Context) State {
	token, err := m.tokens.Get()
	if err != nil || token == "" {
		// Storage unavailable is treated the same as absent.
		if err != nil && !errors.Is(err, tokenstore.ErrTokenNotFound) {
			m.log.Debug().Err(err).Msg("token store unreadable, treating as absent")
		}
		m.state = StateUnauthenticated
		return m.state
	}

	m.state = StateChecking

	profile, err := m.client.FetchProfile(ctx)
	if err != nil {
		if api.IsConnectivity(err) {
			// The credential may still be valid: keep it and let the user
			// retry or switch endpoint.
			m.state = StateConnectionError
			m.lastErr = err
			return m.state
		}
		return m.failClosed(err)
	}

	role, err := ResolveRole(profile.RoleID)
	if err != nil {
		return m.failClosed(err)
	}

	m.session = &Session{Role: role, Profile: profile, Token: token}
	m.state = StateAuthenticated
	m.lastErr = nil
	m.log.Debug().Str("role", string(role)).Int("user_id", profile.ID).Msg("session established")
	return m.state
}

// failClosed clears the credential and lands in StateUnauthenticated.
func (m *Manager) failClosed(cause error) State {
	if err := m.tokens.Delete(); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear credential")
	}
	m.session = nil
	m.state = StateUnauthenticated
	m.lastErr = cause
	return m.state
}

// Login authenticates interactively. Role resolution runs against the login
// response before anything is stored: a resolution failure aborts the login
// with no credential written, never a half-valid session.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	profile, token, err := m.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	if token == "" {
		return nil, &api.Error{Kind: api.KindMalformedResponse, Message: "login response did not include a token"}
	}

	role, err := ResolveRole(profile.RoleID)
	if err != nil {
		return nil, err
	}

	if err := m.tokens.Set(token); err != nil {
		return nil, err
	}

	m.session = &Session{Role: role, Profile: profile, Token: token}
	m.state = StateAuthenticated
	m.lastErr = nil
	m.log.Info().Str("role", string(role)).Msg("logged in")
	return m.session, nil
}

// Logout discards the session and clears the stored credential.
func (m *Manager) Logout() error {
	m.session = nil
	m.state = StateUnauthenticated
	m.lastErr = nil

	if err := m.tokens.Delete(); err != nil {
		return err
	}
	return nil
}
