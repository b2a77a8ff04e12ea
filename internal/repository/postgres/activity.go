package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"dataroom/internal/domain"
)

// ActivityRepository appends audit rows.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

var _ domain.ActivityRepository = (*ActivityRepository)(nil)

func NewActivityRepository(config *RepositoryConfig) *ActivityRepository {
	return &ActivityRepository{pool: config.Pool}
}

func (r *ActivityRepository) Record(ctx context.Context, entry *domain.ActivityLog) error {
	query := `
		INSERT INTO activity_log (user_id, action, entity_type, entity_id, detail)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		entry.UserID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Detail,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	return nil
}
