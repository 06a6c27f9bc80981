package repository

import (
	"context"

	"github.com/wan8ting/mystery-meet/internal/models"
	"github.com/wan8ting/mystery-meet/internal/observability"

	"gorm.io/gorm"
)

// ModerationActionRepository records and lists the moderation audit log.
type ModerationActionRepository interface {
	Record(ctx context.Context, action *models.ModerationAction) error
	ListRecent(ctx context.Context, limit int) ([]*models.ModerationAction, error)
}

type moderationActionRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewModerationActionRepository creates a new moderation action repository
func NewModerationActionRepository(db *gorm.DB) ModerationActionRepository {
	return &moderationActionRepository{db: db, metrics: observability.NewDatabaseMetrics()}
}

func (r *moderationActionRepository) Record(ctx context.Context, action *models.ModerationAction) error {
	defer r.metrics.TrackQuery("insert", "moderation_actions")()
	if err := r.db.WithContext(ctx).Create(action).Error; err != nil {
		return models.NewStoreUnavailableError(err)
	}
	return nil
}

func (r *moderationActionRepository) ListRecent(ctx context.Context, limit int) ([]*models.ModerationAction, error) {
	defer r.metrics.TrackQuery("select", "moderation_actions")()
	if limit <= 0 {
		limit = 100
	}
	var actions []*models.ModerationAction
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&actions).Error
	if err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}
	return actions, nil
}
