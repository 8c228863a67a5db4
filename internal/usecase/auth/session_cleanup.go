package auth

import (
	"context"
	"time"

	"fleet-console/internal/logger"
	"fleet-console/internal/metrics"

	"go.uber.org/zap"
)

// IdlePurger drops per-session state untouched for longer than maxIdle.
type IdlePurger func(maxIdle time.Duration)

// StartSessionCleanupJob removes expired sessions and idle per-session state
// every interval until ctx is done.
func (s *Service) StartSessionCleanupJob(ctx context.Context, interval time.Duration, purgers ...IdlePurger) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Session cleanup job started",
		zap.Duration("interval", interval),
	)

	s.cleanupExpiredSessions(ctx, purgers)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Session cleanup job stopped")
			return
		case <-ticker.C:
			s.cleanupExpiredSessions(ctx, purgers)
		}
	}
}

func (s *Service) cleanupExpiredSessions(ctx context.Context, purgers []IdlePurger) {
	removed, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		logger.Error("Failed to delete expired sessions", zap.Error(err))
	} else {
		metrics.RecordSessionsPurged(removed)
	}

	maxIdle := s.ttl
	if maxIdle <= 0 {
		maxIdle = 24 * time.Hour
	}
	for _, purge := range purgers {
		purge(maxIdle)
	}

	logger.Debug("Expired sessions cleaned up",
		zap.Int64("removed", removed),
		zap.Duration("max_idle", maxIdle),
	)
}
