package core

// scheduler.go runs background maintenance for the in-memory session store.
//
// Sessions hold uploaded files and rendered reports, so idle ones are swept
// on a fixed interval rather than kept until process exit.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is used when StartSessionJanitor gets a
// non-positive interval.
const DefaultSweepInterval = time.Minute

// StartSessionJanitor sweeps expired sessions every interval until ctx is
// cancelled. It blocks; run it in its own goroutine.
func (s *Service) StartSessionJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	slog.Info("session janitor started",
		"interval", interval,
		"session_ttl", s.sessions.ttl,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopped")
			return
		case <-ticker.C:
			s.sweepSessions()
		}
	}
}

func (s *Service) sweepSessions() {
	start := time.Now()
	removed := s.sessions.Sweep()
	if removed == 0 {
		return
	}
	slog.Info("expired sessions swept",
		"sessions_removed", removed,
		"sessions_live", s.sessions.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
