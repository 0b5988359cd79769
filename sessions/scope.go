package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/go-session-client/users"
)

var endedContext = func() context.Context {
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(ErrSessionEnded)
	return ctx
}()

// Context returns a context that lives as long as the current session. It
// is already cancelled when the Manager is not Authenticated.
func (m *Manager) Context() context.Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ctx == nil {
		return endedContext
	}
	return m.ctx
}

// Bind derives a request context from parent that is also cancelled, with
// cause ErrSessionEnded, when the current session ends. While Anonymous the
// result is only tied to parent.
func (m *Manager) Bind(parent context.Context) (context.Context, context.CancelFunc) {
	m.mu.RLock()
	sess := m.ctx
	m.mu.RUnlock()

	ctx, cancel := context.WithCancelCause(parent)
	if sess == nil {
		return ctx, func() { cancel(context.Canceled) }
	}
	if sess.Err() != nil {
		cancel(context.Cause(sess))
		return ctx, func() {}
	}
	stop := context.AfterFunc(sess, func() { cancel(context.Cause(sess)) })
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}

// Access is the outcome of a role-protected route check
type Access int

const (
	// AccessPending means the session is still initializing or a login is
	// in flight
	AccessPending Access = iota
	AccessGranted
	AccessDenied
)

// Guard checks that the session holds any of roles. On denial it navigates
// to the fallback destination.
func (m *Manager) Guard(ctx context.Context, roles ...users.RoleType) Access {
	if m.Loading() || m.State() == Initializing {
		return AccessPending
	}
	if m.IsAuthenticated() && m.HasAnyRole(roles...) {
		return AccessGranted
	}
	m.nav.Navigate(ctx, m.opts.destinations.Fallback)
	return AccessDenied
}

// Countdown renders the remaining credential lifetime as m:ss, "Expired"
// once it has run out, or "" when anonymous. soon is true under a minute.
func (m *Manager) Countdown() (text string, soon bool) {
	m.mu.RLock()
	cred := m.cred
	m.mu.RUnlock()
	if cred == nil {
		return "", false
	}
	left := time.Duration(cred.ExpiresAt-m.opts.now().UnixMilli()) * time.Millisecond
	if left <= 0 {
		return "Expired", false
	}
	minutes := int(left / time.Minute)
	seconds := int((left % time.Minute) / time.Second)
	return fmt.Sprintf("%d:%02d", minutes, seconds), minutes < 1
}
