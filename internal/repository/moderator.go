package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/wan8ting/mystery-meet/internal/models"
	"github.com/wan8ting/mystery-meet/internal/observability"

	"gorm.io/gorm"
)

// ModeratorRepository defines the interface for moderator account lookups.
type ModeratorRepository interface {
	Create(ctx context.Context, mod *models.Moderator) error
	GetByEmail(ctx context.Context, email string) (*models.Moderator, error)
}

type moderatorRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewModeratorRepository creates a new moderator repository
func NewModeratorRepository(db *gorm.DB) ModeratorRepository {
	return &moderatorRepository{db: db, metrics: observability.NewDatabaseMetrics()}
}

func (r *moderatorRepository) Create(ctx context.Context, mod *models.Moderator) error {
	defer r.metrics.TrackQuery("insert", "moderators")()
	mod.Email = strings.ToLower(strings.TrimSpace(mod.Email))
	if err := r.db.WithContext(ctx).Create(mod).Error; err != nil {
		return models.NewStoreUnavailableError(err)
	}
	return nil
}

// GetByEmail returns (nil, nil) when no moderator exists for the email,
// leaving the credential decision to the caller.
func (r *moderatorRepository) GetByEmail(ctx context.Context, email string) (*models.Moderator, error) {
	defer r.metrics.TrackQuery("select", "moderators")()
	var mod models.Moderator
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&mod).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewStoreUnavailableError(err)
	}
	return &mod, nil
}
