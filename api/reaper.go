/*
reaper.go - Idle session cleanup

PURPOSE:
  Periodically drops sessions that have not been used for SessionStore.TTL.
  Their ledgers are discarded; nothing is persisted.

LIFECYCLE:
  Run blocks until its context is cancelled, so cmd/server runs it inside
  the same errgroup as the HTTP server and shuts both down together.

SEE ALSO:
  - sessions.go: SessionStore.Reap
  - cmd/server/main.go: errgroup wiring
*/
package api

import (
	"context"
	"time"

	applog "github.com/warp/ledger-engine/internal/log"
)

// SessionReaper runs SessionStore.Reap on a ticker.
type SessionReaper struct {
	Sessions *SessionStore
	Interval time.Duration
	logger   *applog.Logger
}

// NewSessionReaper creates a reaper.
func NewSessionReaper(sessions *SessionStore, interval time.Duration, logger *applog.Logger) *SessionReaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionReaper{
		Sessions: sessions,
		Interval: interval,
		logger:   logger.WithComponent(applog.ComponentReaper),
	}
}

// Run reaps until ctx is done. It always returns nil on cancellation.
func (r *SessionReaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	r.logger.Info("Reaper started", "interval", r.Interval.String(), "ttl", r.Sessions.TTL.String())
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Reaper stopped")
			return nil
		case <-ticker.C:
			r.RunNow()
		}
	}
}

// RunNow performs one reaping pass and returns how many sessions it dropped.
func (r *SessionReaper) RunNow() int {
	reaped := r.Sessions.Reap()
	for _, id := range reaped {
		r.logger.Debug("Session expired", applog.FieldSessionID, id)
	}
	if len(reaped) > 0 {
		r.logger.Info("Reaped idle sessions", "count", len(reaped), "remaining", r.Sessions.Len())
	}
	return len(reaped)
}
