package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jrsteele09/go-session-client/httpclient"
	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/internal/logging"
	"github.com/jrsteele09/go-session-client/internal/metrics"
	"github.com/jrsteele09/go-session-client/storage"
	"github.com/jrsteele09/go-session-client/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// BearerToken reads the persisted credential for the outgoing-request
// hook. A missing or expired record yields "". A malformed record is
// cleared and reported. An expired credential ends an active session the
// same way the expiry watcher does.
func (m *Manager) BearerToken() (string, error) {
	if m.CheckExpiry() {
		return "", nil
	}

	cred, err := token.Load(m.store)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		if cerr := token.Clear(m.store); cerr != nil {
			log.Err(cerr).Msg("failed to clear malformed credential")
		}
		return "", err
	}
	if cred.Expired(m.opts.now()) {
		if m.IsAuthenticated() {
			m.end(context.Background(), ReasonExpired)
			return "", nil
		}
		if cerr := token.Clear(m.store); cerr != nil {
			log.Err(cerr).Msg("failed to clear expired credential")
		}
		return "", nil
	}
	return cred.Token, nil
}

// CurrentToken returns the session's token regardless of expiry, falling
// back to the persisted record when nothing is held in memory
func (m *Manager) CurrentToken() string {
	if tok := m.Token(); tok != "" {
		return tok
	}
	cred, err := token.Load(m.store)
	if err != nil {
		return ""
	}
	return cred.Token
}

// Recover handles a mid-session 401 for failedToken. In refresh mode it
// first tries the stored refresh token; otherwise, or when that fails, the
// session ends and the caller gets ErrSessionExpired.
func (m *Manager) Recover(ctx context.Context, failedToken string) (string, error) {
	if m.opts.mode == RecoveryRefresh {
		tok, err := m.refresh(ctx)
		if err == nil {
			metrics.RecordRecovery(metrics.OutcomeRefreshed)
			log.Info().Str("token", logging.Redact(tok)).Msg("session refreshed")
			return tok, nil
		}
		log.Warn().Err(err).Msg("refresh failed, ending session")
	}

	m.end(ctx, ReasonUnauthorized)
	metrics.RecordRecovery(metrics.OutcomeLoggedOut)
	return "", fmt.Errorf("[sessions Recover] token %s: %w", logging.Redact(failedToken), errors.ErrSessionExpired)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refreshResponse accepts both this backend's {token, expires_at} shape and
// the OAuth2 {access_token, expires_in} shape
type refreshResponse struct {
	Token        string      `json:"token"`
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	ExpiresAt    json.Number `json:"expires_at"`
	ExpiresIn    int64       `json:"expires_in"`
	RefreshToken string      `json:"refresh_token"`
}

func (r *refreshResponse) oauth2Token(now time.Time) *oauth2.Token {
	t := &oauth2.Token{
		AccessToken:  r.AccessToken,
		TokenType:    r.TokenType,
		RefreshToken: r.RefreshToken,
	}
	if t.AccessToken == "" {
		t.AccessToken = r.Token
	}
	if r.ExpiresIn > 0 {
		t.Expiry = now.Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return t
}

func (m *Manager) refresh(ctx context.Context) (string, error) {
	m.mu.RLock()
	cred := m.cred
	m.mu.RUnlock()
	if cred == nil || cred.RefreshToken == "" {
		return "", fmt.Errorf("[sessions refresh] no refresh token stored: %w", errors.ErrInvalidRefreshToken)
	}

	var resp refreshResponse
	if _, err := m.client.PostJSON(httpclient.WithoutRecovery(ctx), PathRefresh, refreshRequest{RefreshToken: cred.RefreshToken}, &resp); err != nil {
		return "", fmt.Errorf("[sessions refresh] %w", err)
	}

	now := m.opts.now()
	tok := resp.oauth2Token(now)
	if tok.AccessToken == "" {
		return "", fmt.Errorf("[sessions refresh] no token in response: %w", errors.ErrMalformedResponse)
	}

	var expiresAt int64
	if !tok.Expiry.IsZero() {
		expiresAt = tok.Expiry.UnixMilli()
	} else {
		var err error
		if expiresAt, err = m.expiryFrom(resp.ExpiresAt, tok.AccessToken); err != nil {
			return "", fmt.Errorf("[sessions refresh] %w", err)
		}
	}

	next := &token.Credential{Token: tok.AccessToken, ExpiresAt: expiresAt, RefreshToken: tok.RefreshToken}
	if next.RefreshToken == "" {
		next.RefreshToken = cred.RefreshToken
	}
	if next.Expired(now) {
		return "", fmt.Errorf("[sessions refresh] %w", errors.ErrTokenExpired)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cred != cred {
		return "", fmt.Errorf("[sessions refresh] session changed during refresh: %w", errors.ErrSessionExpired)
	}
	if err := token.Save(m.store, next); err != nil {
		return "", fmt.Errorf("[sessions refresh] %w", err)
	}
	m.cred = next
	return next.Token, nil
}
