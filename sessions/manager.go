// Package sessions owns "who is logged in, with what credential, until
// when". A Manager is constructed once and injected wherever session state
// is read; it installs the bearer and 401-recovery hooks on the shared
// HTTP client.
package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jrsteele09/go-session-client/httpclient"
	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/internal/logging"
	"github.com/jrsteele09/go-session-client/internal/metrics"
	"github.com/jrsteele09/go-session-client/storage"
	"github.com/jrsteele09/go-session-client/token"
	"github.com/jrsteele09/go-session-client/token/jwt"
	"github.com/jrsteele09/go-session-client/users"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	PathAuthenticate = "/api/v1/users/authenticate"
	PathUsers        = "/api/v1/users/"
	PathRefresh      = "/auth/refresh"
)

// State is the session lifecycle state
type State int

const (
	Initializing State = iota
	Anonymous
	Authenticated
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Reasons a session ends
const (
	ReasonLogout       = "logout"
	ReasonExpired      = "expired"
	ReasonUnauthorized = "unauthorized"
)

// ErrSessionEnded is the cancellation cause of contexts bound to a session
// that has ended
var ErrSessionEnded = errors.Wrapf(errors.ErrSessionExpired, "session ended")

var (
	_ httpclient.CredentialSource = (*Manager)(nil)
	_ httpclient.Recoverer        = (*Manager)(nil)
)

type Manager struct {
	client *httpclient.Client
	store  storage.Store
	nav    Navigator
	opts   options

	mu       sync.RWMutex
	state    State
	user     *users.Record
	cred     *token.Credential
	ctx      context.Context
	cancel   context.CancelCauseFunc
	watcher  *cron.Cron
	inflight atomic.Int32
}

// New creates a Manager in the Initializing state and installs its hooks on
// client. Call Restore to leave Initializing.
func New(client *httpclient.Client, store storage.Store, nav Navigator, opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if nav == nil {
		nav = discardNavigator{}
	}
	m := &Manager{
		client: client,
		store:  store,
		nav:    nav,
		opts:   o,
		state:  Initializing,
	}
	client.Use(m, m)
	return m
}

// Restore rebuilds the session from storage without any network call. A
// missing, expired or corrupt record clears both keys and leaves the
// Manager Anonymous.
func (m *Manager) Restore(ctx context.Context) State {
	cred, user, err := m.loadPersisted()
	if err == nil && cred.Expired(m.opts.now()) {
		err = errors.ErrTokenExpired
	}
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Info().Err(err).Msg("discarding stored session")
		}
		if cerr := token.Clear(m.store); cerr != nil {
			log.Err(cerr).Msg("failed to clear stored session")
		}
		m.mu.Lock()
		m.state = Anonymous
		m.mu.Unlock()
		return Anonymous
	}

	m.mu.Lock()
	m.startLocked(user, cred)
	m.mu.Unlock()
	metrics.RecordSessionStart()
	log.Info().Int64("user_id", user.ID).Str("role", user.Role.String()).Msg("session restored")
	return Authenticated
}

func (m *Manager) loadPersisted() (*token.Credential, *users.Record, error) {
	cred, err := token.Load(m.store)
	if err != nil {
		return nil, nil, err
	}
	user, err := token.LoadUser(m.store)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("[sessions Restore] user record missing: %w", errors.ErrMalformedCredential)
		}
		return nil, nil, err
	}
	return cred, user, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User         *users.Record `json:"user"`
	Token        string        `json:"token"`
	ExpiresAt    json.Number   `json:"expires_at"`
	RefreshToken string        `json:"refresh_token,omitempty"`
}

// Login authenticates against the backend. On success the session is
// persisted, the Manager becomes Authenticated and navigates to the role's
// landing destination. On failure the error is returned and nothing
// changes.
func (m *Manager) Login(ctx context.Context, email, password string) (*users.Record, error) {
	defer m.beginLoading()()

	if strings.TrimSpace(email) == "" || password == "" {
		metrics.RecordLogin(metrics.ResultRejected)
		return nil, fmt.Errorf("[sessions Login] email and password are required: %w", errors.ErrInvalidRequest)
	}

	var resp authResponse
	_, err := m.client.PostJSON(httpclient.WithoutRecovery(ctx), PathAuthenticate, loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		metrics.RecordLogin(resultFor(err))
		return nil, fmt.Errorf("[sessions Login] %w", err)
	}

	user, cred, err := m.sessionFrom(&resp)
	if err != nil {
		metrics.RecordLogin(metrics.ResultError)
		return nil, fmt.Errorf("[sessions Login] %w", err)
	}
	if err := m.persist(user, cred); err != nil {
		metrics.RecordLogin(metrics.ResultError)
		return nil, fmt.Errorf("[sessions Login] %w", err)
	}

	m.mu.Lock()
	m.startLocked(user, cred)
	m.mu.Unlock()

	metrics.RecordLogin(metrics.ResultSuccess)
	metrics.RecordSessionStart()
	log.Info().Int64("user_id", user.ID).Str("role", user.Role.String()).Str("token", logging.Redact(cred.Token)).Msg("logged in")

	m.nav.Navigate(ctx, m.opts.destinations.LandingFor(user.Role))
	return user, nil
}

func resultFor(err error) string {
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
		return metrics.ResultRejected
	}
	return metrics.ResultError
}

// sessionFrom validates an authentication response and normalizes its
// expiry to epoch milliseconds
func (m *Manager) sessionFrom(resp *authResponse) (*users.Record, *token.Credential, error) {
	if resp.Token == "" {
		return nil, nil, fmt.Errorf("no token in response: %w", errors.ErrMalformedResponse)
	}
	if err := resp.User.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err)
	}

	expiresAt, err := m.expiryFrom(resp.ExpiresAt, resp.Token)
	if err != nil {
		return nil, nil, err
	}
	cred := &token.Credential{Token: resp.Token, ExpiresAt: expiresAt, RefreshToken: resp.RefreshToken}
	if cred.Expired(m.opts.now()) {
		return nil, nil, fmt.Errorf("issued credential already expired: %w", errors.ErrTokenExpired)
	}
	return resp.User, cred, nil
}

// expiryFrom normalizes expires_at, falling back to the token's exp claim
// when the field is absent
func (m *Manager) expiryFrom(raw json.Number, tok string) (int64, error) {
	if raw == "" {
		exp, err := jwt.ExpiryFromToken(tok)
		if err != nil {
			return 0, fmt.Errorf("no expires_at and %v: %w", err, errors.ErrMalformedResponse)
		}
		return exp, nil
	}
	v, err := raw.Int64()
	if err != nil {
		f, ferr := raw.Float64()
		if ferr != nil {
			return 0, fmt.Errorf("expires_at %q: %w", raw, errors.ErrMalformedResponse)
		}
		v = int64(f)
	}
	return token.Normalize(v, m.opts.unit), nil
}

func (m *Manager) persist(user *users.Record, cred *token.Credential) error {
	if err := token.SaveUser(m.store, user); err != nil {
		return err
	}
	if err := token.Save(m.store, cred); err != nil {
		if cerr := token.Clear(m.store); cerr != nil {
			log.Err(cerr).Msg("failed to clear partial session")
		}
		return err
	}
	return nil
}

type signupRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	IsActive bool           `json:"is_active"`
	Role     users.RoleType `json:"role"`
}

// Signup registers a new account and navigates to the login destination.
// No session is established: the caller logs in explicitly, even when the
// backend returns a token with the new record.
func (m *Manager) Signup(ctx context.Context, name, email, password string, role users.RoleType) (*users.Record, error) {
	defer m.beginLoading()()

	if role == "" {
		role = users.RoleUser
	}
	if !role.Valid() {
		metrics.RecordSignup(metrics.ResultRejected)
		return nil, fmt.Errorf("[sessions Signup] %q: %w", role, errors.ErrInvalidRole)
	}

	var raw json.RawMessage
	req := signupRequest{Name: name, Email: email, Password: password, IsActive: true, Role: role}
	status, err := m.client.PostJSON(httpclient.WithoutRecovery(ctx), PathUsers, req, &raw)
	if err != nil {
		metrics.RecordSignup(resultFor(err))
		return nil, fmt.Errorf("[sessions Signup] %w", err)
	}
	if status != http.StatusCreated {
		metrics.RecordSignup(metrics.ResultError)
		return nil, fmt.Errorf("[sessions Signup] unexpected status %d: %w", status, errors.ErrMalformedResponse)
	}

	user, err := decodeSignup(raw)
	if err != nil {
		metrics.RecordSignup(metrics.ResultError)
		return nil, fmt.Errorf("[sessions Signup] %w", err)
	}

	metrics.RecordSignup(metrics.ResultSuccess)
	log.Info().Int64("user_id", user.ID).Str("role", user.Role.String()).Msg("signed up")
	m.nav.Navigate(ctx, m.opts.destinations.Login)
	return user, nil
}

// decodeSignup accepts both {user, token, expires_at} and a bare record
func decodeSignup(raw json.RawMessage) (*users.Record, error) {
	var envelope struct {
		User *users.Record `json:"user"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.User != nil {
		return envelope.User, nil
	}
	var user users.Record
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err)
	}
	if user.Email == "" {
		return nil, fmt.Errorf("no user record in response: %w", errors.ErrMalformedResponse)
	}
	return &user, nil
}

// Logout ends the session and navigates to the login destination. It is
// safe to call when already Anonymous.
func (m *Manager) Logout(ctx context.Context) {
	m.end(ctx, ReasonLogout)
}

// end clears storage and memory, cancels the session context and
// navigates to login
func (m *Manager) end(ctx context.Context, reason string) {
	m.mu.Lock()
	wasAuthenticated := m.clearLocked()
	m.mu.Unlock()
	m.ended(ctx, reason, wasAuthenticated)
}

func (m *Manager) ended(ctx context.Context, reason string, wasAuthenticated bool) {
	if wasAuthenticated {
		metrics.RecordSessionEnd(reason)
		log.Info().Str("reason", reason).Msg("session ended")
	}
	m.nav.Navigate(ctx, m.opts.destinations.Login)
}

// clearLocked wipes storage and the in-memory session and reports whether
// a session was active. Callers hold m.mu.
func (m *Manager) clearLocked() bool {
	if err := token.Clear(m.store); err != nil {
		log.Err(err).Msg("failed to clear stored session")
	}
	wasAuthenticated := m.state == Authenticated
	m.stopLocked()
	m.state = Anonymous
	return wasAuthenticated
}

// startLocked sets the in-memory session and starts its context and expiry
// watcher. Callers hold m.mu.
func (m *Manager) startLocked(user *users.Record, cred *token.Credential) {
	m.stopLocked()
	m.user = user
	m.cred = cred
	m.state = Authenticated
	m.ctx, m.cancel = context.WithCancelCause(context.Background())
	m.watcher = m.startWatcher()
}

// stopLocked clears the in-memory session. Callers hold m.mu.
func (m *Manager) stopLocked() {
	if m.cancel != nil {
		m.cancel(ErrSessionEnded)
	}
	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.user = nil
	m.cred = nil
	m.ctx = nil
	m.cancel = nil
	m.watcher = nil
}

// beginLoading raises the loading flag and returns its release
func (m *Manager) beginLoading() func() {
	m.inflight.Add(1)
	return func() { m.inflight.Add(-1) }
}

// Loading reports whether a login or signup is in flight
func (m *Manager) Loading() bool {
	return m.inflight.Load() > 0
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// User returns a copy of the signed-in user, nil when anonymous
func (m *Manager) User() *users.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Token returns the in-memory bearer token, "" when anonymous
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cred == nil {
		return ""
	}
	return m.cred.Token
}

// ExpiresAt returns the credential expiry in epoch milliseconds, 0 when
// anonymous
func (m *Manager) ExpiresAt() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cred == nil {
		return 0
	}
	return m.cred.ExpiresAt
}

func (m *Manager) TimeLeft() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cred == nil {
		return 0
	}
	return m.cred.TimeLeft(m.opts.now())
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

func (m *Manager) HasRole(role users.RoleType) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.HasRole(role)
}

func (m *Manager) HasAnyRole(roles ...users.RoleType) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range roles {
		if m.user.HasRole(r) {
			return true
		}
	}
	return false
}

func (m *Manager) IsAdmin() bool  { return m.HasRole(users.RoleAdmin) }
func (m *Manager) IsTenant() bool { return m.HasRole(users.RoleTenant) }
func (m *Manager) IsUser() bool   { return m.HasRole(users.RoleUser) }
