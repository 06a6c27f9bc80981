// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"github.com/wan8ting/mystery-meet/internal/cache"
	"github.com/wan8ting/mystery-meet/internal/models"
	"github.com/wan8ting/mystery-meet/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for submission data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListApproved(ctx context.Context) ([]*models.Post, error)
	ListPending(ctx context.Context) ([]*models.Post, error)
	ListVisible(ctx context.Context, threshold int) ([]*models.Post, error)
	UpdateStatus(ctx context.Context, id string, status models.PostStatus) error
	Delete(ctx context.Context, id string) error
	IncrementReports(ctx context.Context, id string) error
}

// postRepository implements PostRepository
type postRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, metrics: observability.NewDatabaseMetrics()}
}

// feedOrder is newest-first with the ID as a stable tie-break.
const feedOrder = "created_at DESC, id ASC"

// Create persists a new submission. Only the submitter-provided fields are
// taken from the argument; moderation state is always reset here so a
// crafted payload can never land pre-approved or with a doctored counter.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer r.metrics.TrackQuery("insert", "posts")()
	rec := &models.Post{
		Nickname: post.Nickname,
		Age:      post.Age,
		Contact:  post.Contact,
		Intro:    post.Intro,
		Status:   models.StatusPending,
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return models.NewStoreUnavailableError(err)
	}
	*post = *rec
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	defer r.metrics.TrackQuery("select", "posts")()
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, models.NewStoreUnavailableError(err)
	}
	return &post, nil
}

func (r *postRepository) ListApproved(ctx context.Context) ([]*models.Post, error) {
	defer r.metrics.TrackQuery("select", "posts")()
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusApproved).
		Order(feedOrder).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}
	return posts, nil
}

func (r *postRepository) ListPending(ctx context.Context) ([]*models.Post, error) {
	defer r.metrics.TrackQuery("select", "posts")()
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusPending).
		Order(feedOrder).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}
	return posts, nil
}

func (r *postRepository) ListVisible(ctx context.Context, threshold int) ([]*models.Post, error) {
	defer r.metrics.TrackQuery("select", "posts")()
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("status = ? AND reports_count < ?", models.StatusApproved, threshold).
		Order(feedOrder).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}
	return posts, nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, id string, status models.PostStatus) error {
	defer r.metrics.TrackQuery("update", "posts")()
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return models.NewStoreUnavailableError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("post", id)
	}
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	defer r.metrics.TrackQuery("delete", "posts")()
	res := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return models.NewStoreUnavailableError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("post", id)
	}
	cache.InvalidateFeed(ctx)
	return nil
}

// IncrementReports bumps the report counter by exactly one in a single
// UPDATE so concurrent reports never lose increments.
func (r *postRepository) IncrementReports(ctx context.Context, id string) error {
	defer r.metrics.TrackQuery("update", "posts")()
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("reports_count", gorm.Expr("reports_count + 1"))
	if res.Error != nil {
		return models.NewStoreUnavailableError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("post", id)
	}
	cache.InvalidateFeed(ctx)
	return nil
}
