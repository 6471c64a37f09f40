package tasks

import (
	"context"
	"time"
)

// newOfflineExpiryTask creates the scheduled task that ends a timed offline
// window. When /offline_for's deadline passes it flips the bot back online
// and notifies the owner.
func newOfflineExpiryTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "offline_expiry")

	return func(ctx context.Context) error {
		if !deps.State.ExpireOffline(time.Now()) {
			return nil
		}

		log.InfoContext(ctx, "Timed offline mode expired, back online")

		if deps.Notify == nil {
			return nil
		}
		if err := deps.Notify(ctx, deps.Config.Messages.OfflineExpired); err != nil {
			// Owner notification is best-effort; the state change already took.
			log.ErrorContext(ctx, "Failed to notify owner about offline expiry", "error", err)
		}
		return nil
	}
}
