package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// NotificationCleaner purges notifications older than a retention window.
type NotificationCleaner interface {
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
}

// SessionCleaner removes expired and revoked sessions.
type SessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

// CleanupWorker runs the retention cleanup once a day at a fixed hour.
type CleanupWorker struct {
	notifications NotificationCleaner
	sessions      SessionCleaner
	retention     time.Duration
	hour          int
	log           *zap.Logger
	now           func() time.Time
}

func NewCleanupWorker(
	notifications NotificationCleaner,
	sessions SessionCleaner,
	retention time.Duration,
	hour int,
	log *zap.Logger,
) *CleanupWorker {
	if hour < 0 || hour > 23 {
		hour = 2
	}
	return &CleanupWorker{
		notifications: notifications,
		sessions:      sessions,
		retention:     retention,
		hour:          hour,
		log:           log.With(zap.String("worker", "cleanup")),
		now:           time.Now,
	}
}

// Start blocks until ctx is cancelled.
func (w *CleanupWorker) Start(ctx context.Context) {
	w.log.Info("Cleanup worker started", zap.Int("hour", w.hour), zap.Duration("retention", w.retention))

	for {
		wait := nextRun(w.now(), w.hour).Sub(w.now())
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			w.log.Info("Cleanup worker stopped")
			return
		case <-timer.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce purges old notifications and expired sessions. Failures are logged.
func (w *CleanupWorker) RunOnce(ctx context.Context) {
	w.log.Info("Starting cleanup")

	deleted, err := w.notifications.Cleanup(ctx, w.retention)
	if err != nil {
		w.log.Error("Failed to clean up notifications", zap.Error(err))
	} else {
		w.log.Info("Notifications cleaned up", zap.Int64("deleted", deleted))
	}

	if w.sessions == nil {
		return
	}
	sessions, err := w.sessions.CleanExpiredSessions(ctx)
	if err != nil {
		w.log.Error("Failed to clean up sessions", zap.Error(err))
		return
	}
	w.log.Info("Sessions cleaned up", zap.Int64("deleted", sessions))
}

// nextRun is the next time strictly after now at hour:00 local time.
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
