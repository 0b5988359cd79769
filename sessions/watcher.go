package sessions

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// startWatcher schedules CheckExpiry for the current session. Callers hold
// m.mu.
func (m *Manager) startWatcher() *cron.Cron {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	spec := fmt.Sprintf("@every %s", m.opts.checkInterval)
	if _, err := c.AddFunc(spec, func() { m.CheckExpiry() }); err != nil {
		log.Err(err).Str("spec", spec).Msg("failed to schedule session expiry check")
		return nil
	}
	c.Start()
	return c
}

// CheckExpiry ends the session silently when its credential has expired and
// reports whether it did
func (m *Manager) CheckExpiry() bool {
	m.mu.Lock()
	if m.cred == nil || !m.cred.Expired(m.opts.now()) {
		m.mu.Unlock()
		return false
	}
	wasAuthenticated := m.clearLocked()
	m.mu.Unlock()

	m.ended(context.Background(), ReasonExpired, wasAuthenticated)
	return true
}

// Close stops the expiry watcher without ending the session
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}
}
