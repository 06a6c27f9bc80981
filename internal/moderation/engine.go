package moderation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/wan8ting/mystery-meet/internal/cache"
	"github.com/wan8ting/mystery-meet/internal/models"
	"github.com/wan8ting/mystery-meet/internal/notifications"
	"github.com/wan8ting/mystery-meet/internal/observability"
	"github.com/wan8ting/mystery-meet/internal/repository"
	"github.com/wan8ting/mystery-meet/internal/validation"
)

// Broadcaster is the snapshot fan-out the engine pushes board changes to.
type Broadcaster interface {
	Subscribe(ctx context.Context, stream string, initial []*models.Post) (<-chan []*models.Post, func())
	Broadcast(stream string, snapshot []*models.Post)
}

// Engine ties validation, storage, the access gate and the snapshot hub
// together. Every mutation re-reads the affected view and broadcasts it,
// so watchers always receive complete snapshots rather than deltas.
type Engine struct {
	posts     repository.PostRepository
	actions   repository.ModerationActionRepository
	validator *validation.Validator
	gate      *AccessGate
	hub       Broadcaster
	threshold int
}

// NewEngine creates an Engine. threshold is the report count at which an
// approved post drops out of the public feed.
func NewEngine(
	posts repository.PostRepository,
	actions repository.ModerationActionRepository,
	validator *validation.Validator,
	gate *AccessGate,
	hub Broadcaster,
	threshold int,
) *Engine {
	return &Engine{
		posts:     posts,
		actions:   actions,
		validator: validator,
		gate:      gate,
		hub:       hub,
		threshold: threshold,
	}
}

// Submit validates a submission and stores it as pending. The returned
// post carries the assigned ID and normalized fields.
func (e *Engine) Submit(ctx context.Context, in validation.Submission) (*models.Post, error) {
	draft, err := e.validator.Validate(in)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && models.IsValidationCode(appErr.Code) {
			observability.SubmissionsTotal.WithLabelValues(appErr.Code).Inc()
		}
		return nil, err
	}

	if err := e.posts.Create(ctx, draft); err != nil {
		return nil, err
	}

	observability.SubmissionsTotal.WithLabelValues("accepted").Inc()
	slog.InfoContext(ctx, "Submission accepted", "post_id", draft.ID)

	e.refreshQueue(ctx)
	return draft, nil
}

// Approve moves a post into the approved state.
func (e *Engine) Approve(ctx context.Context, adminEmail, id string) error {
	return e.decide(ctx, adminEmail, id, models.ActionApprove, models.StatusApproved)
}

// Unapprove sends an approved post back to the pending queue.
func (e *Engine) Unapprove(ctx context.Context, adminEmail, id string) error {
	return e.decide(ctx, adminEmail, id, models.ActionUnapprove, models.StatusPending)
}

// Delete removes a post entirely.
func (e *Engine) Delete(ctx context.Context, adminEmail, id string) error {
	if err := e.authorize(adminEmail); err != nil {
		return err
	}
	if err := e.posts.Delete(ctx, id); err != nil {
		return err
	}

	e.recordAction(ctx, adminEmail, models.ActionDelete, id)
	observability.ModerationDecisions.WithLabelValues(models.ActionDelete).Inc()
	slog.InfoContext(ctx, "Post deleted", "post_id", id, "moderator", adminEmail)

	e.refreshFeed(ctx)
	e.refreshQueue(ctx)
	return nil
}

// Report adds one report to a post. No identity is required; repeat
// reports from the same caller each count.
func (e *Engine) Report(ctx context.Context, id string) error {
	if err := e.posts.IncrementReports(ctx, id); err != nil {
		return err
	}

	observability.ReportsTotal.Inc()
	slog.InfoContext(ctx, "Post reported", "post_id", id)

	// The post may have just crossed the hide threshold.
	e.refreshFeed(ctx)
	return nil
}

// VisibleFeed returns the public view: approved posts that have not
// accumulated enough reports to be hidden. Served through the cache.
func (e *Engine) VisibleFeed(ctx context.Context) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := cache.Aside(ctx, cache.FeedKey, &posts, cache.FeedTTL, func() error {
		fetched, fetchErr := e.posts.ListVisible(ctx, e.threshold)
		if fetchErr != nil {
			return fetchErr
		}
		posts = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// PendingQueue returns the moderation queue. Moderators only.
func (e *Engine) PendingQueue(ctx context.Context, adminEmail string) ([]*models.Post, error) {
	if err := e.authorize(adminEmail); err != nil {
		return nil, err
	}
	return e.posts.ListPending(ctx)
}

// ApprovedList returns every approved post regardless of report count.
// Posts hidden from the public feed by reports show up nowhere else, so
// this is the view moderators use to find and unapprove or delete them.
func (e *Engine) ApprovedList(ctx context.Context, adminEmail string) ([]*models.Post, error) {
	if err := e.authorize(adminEmail); err != nil {
		return nil, err
	}
	return e.posts.ListApproved(ctx)
}

// RecentActions returns the newest audit log entries. Moderators only.
func (e *Engine) RecentActions(ctx context.Context, adminEmail string, limit int) ([]*models.ModerationAction, error) {
	if err := e.authorize(adminEmail); err != nil {
		return nil, err
	}
	return e.actions.ListRecent(ctx, limit)
}

// WatchApproved subscribes to live snapshots of the public feed. The first
// delivery is the current state; later ones follow each board change.
func (e *Engine) WatchApproved(ctx context.Context) (<-chan []*models.Post, func(), error) {
	initial, err := e.posts.ListVisible(ctx, e.threshold)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := e.hub.Subscribe(ctx, notifications.StreamFeed, initial)
	return ch, cancel, nil
}

// WatchPending subscribes to live snapshots of the moderation queue.
// Moderators only.
func (e *Engine) WatchPending(ctx context.Context, adminEmail string) (<-chan []*models.Post, func(), error) {
	if err := e.authorize(adminEmail); err != nil {
		return nil, nil, err
	}
	initial, err := e.posts.ListPending(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := e.hub.Subscribe(ctx, notifications.StreamQueue, initial)
	return ch, cancel, nil
}

// Threshold returns the configured auto-hide report threshold.
func (e *Engine) Threshold() int {
	return e.threshold
}

// decide applies a status change on behalf of a moderator. Authorization
// is checked before the post is looked up, so outsiders cannot learn
// which IDs exist.
func (e *Engine) decide(ctx context.Context, adminEmail, id, action string, status models.PostStatus) error {
	if err := e.authorize(adminEmail); err != nil {
		return err
	}
	if err := e.posts.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	e.recordAction(ctx, adminEmail, action, id)
	observability.ModerationDecisions.WithLabelValues(action).Inc()
	slog.InfoContext(ctx, "Moderation decision", "action", action, "post_id", id, "moderator", adminEmail)

	e.refreshFeed(ctx)
	e.refreshQueue(ctx)
	return nil
}

func (e *Engine) authorize(adminEmail string) error {
	if !e.gate.Allow(adminEmail) {
		return models.NewUnauthorizedError("Moderator access required")
	}
	return nil
}

// recordAction writes an audit row. Audit failures are logged but never
// fail the decision that already happened.
func (e *Engine) recordAction(ctx context.Context, adminEmail, action, postID string) {
	rec := &models.ModerationAction{
		ModeratorEmail: adminEmail,
		Action:         action,
		PostID:         postID,
	}
	if err := e.actions.Record(ctx, rec); err != nil {
		slog.WarnContext(ctx, "Failed to record moderation action", "action", action, "post_id", postID, "error", err)
	}
}

func (e *Engine) refreshFeed(ctx context.Context) {
	list, err := e.posts.ListVisible(ctx, e.threshold)
	if err != nil {
		slog.WarnContext(ctx, "Failed to refresh feed snapshot", "error", err)
		return
	}
	e.hub.Broadcast(notifications.StreamFeed, list)
}

func (e *Engine) refreshQueue(ctx context.Context) {
	list, err := e.posts.ListPending(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to refresh queue snapshot", "error", err)
		return
	}
	e.hub.Broadcast(notifications.StreamQueue, list)
}
