package httpclient

import (
	"context"
	"sync"
)

// CredentialSource supplies the token attached to outgoing requests
type CredentialSource interface {
	// BearerToken returns the persisted, non-expired token or "" when there
	// is none. An error means the stored credential could not be read.
	BearerToken() (string, error)
}

// Recoverer reacts to a request rejected with 401
type Recoverer interface {
	// CurrentToken returns the token the session currently holds, expired
	// or not, and "" when anonymous.
	CurrentToken() string
	// Recover runs at most once per failed token. It returns the token to
	// retry with, or an error when the session has ended.
	Recover(ctx context.Context, failedToken string) (string, error)
}

type hooks struct {
	mu        sync.RWMutex
	source    CredentialSource
	recoverer Recoverer
}

func (h *hooks) set(source CredentialSource, recoverer Recoverer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.source = source
	h.recoverer = recoverer
}

func (h *hooks) get() (CredentialSource, Recoverer) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.source, h.recoverer
}

type ctxKey int

const (
	skipRecoveryKey ctxKey = iota
	retriedKey
	attemptKey
)

// WithoutRecovery marks requests whose 401 belongs to the caller, such as
// login and signup, so the response hook leaves them alone
func WithoutRecovery(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipRecoveryKey, true)
}

func skipRecovery(ctx context.Context) bool {
	v, _ := ctx.Value(skipRecoveryKey).(bool)
	return v
}

func withRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey, true)
}

func isRetried(ctx context.Context) bool {
	v, _ := ctx.Value(retriedKey).(bool)
	return v
}

// attempt records the token the bearer hook attached to one round trip
type attempt struct {
	token string
}

func withAttempt(ctx context.Context, a *attempt) context.Context {
	return context.WithValue(ctx, attemptKey, a)
}

func attemptFrom(ctx context.Context) *attempt {
	a, _ := ctx.Value(attemptKey).(*attempt)
	return a
}
