package session

import (
	"context"
	"time"

	"github.com/sqli/medwork-client/pkg/jwtx"
)

// StartWatcher launches the background loop that checks the access token
// for expiry every interval and refreshes it proactively, so interactive
// requests rarely pay the refresh round trip themselves. Calling it twice
// without StopWatcher in between is a no-op.
func (m *Manager) StartWatcher() {
	m.mu.Lock()
	if m.stopCh != nil {
		m.mu.Unlock()
		return
	}
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	m.logger.Debug("session watcher started", "interval", m.interval)

	go m.watch(stopCh, doneCh)
}

// StopWatcher stops the background loop and waits for it to exit.
func (m *Manager) StopWatcher() {
	m.mu.Lock()
	stopCh, doneCh := m.stopCh, m.doneCh
	m.stopCh, m.doneCh = nil, nil
	m.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh

	m.logger.Debug("session watcher stopped")
}

func (m *Manager) watch(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			m.checkExpiry()
		}
	}
}

// checkExpiry refreshes the access token if it is expired or about to be.
// A failed refresh already tears the session down through the SDK hook, so
// the error is only logged here.
func (m *Manager) checkExpiry() {
	sess := m.Session()
	if sess == nil {
		return
	}
	if !jwtx.IsExpired(sess.AccessToken()) {
		return
	}

	m.logger.Debug("access token expired, refreshing")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if _, err := sess.RefreshAccessToken(ctx); err != nil {
		m.logger.Warn("scheduled token refresh failed", "error", err)
	}
}
