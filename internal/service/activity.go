package service

import (
	"context"
	"log/slog"

	"dataroom/internal/domain"
)

// recordActivity writes an audit row best-effort; a failure is logged and
// never fails the operation that triggered it.
func recordActivity(ctx context.Context, repo domain.ActivityRepository, logger *slog.Logger, entry domain.ActivityLog) {
	if repo == nil {
		return
	}
	if err := repo.Record(ctx, &entry); err != nil {
		logger.Warn("failed to record activity",
			"action", entry.Action,
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"error", err,
		)
	}
}
