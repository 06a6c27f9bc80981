package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/wan8ting/mystery-meet/internal/models"
	"github.com/wan8ting/mystery-meet/internal/notifications"
	"github.com/wan8ting/mystery-meet/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postRepoStub struct {
	createFn           func(ctx context.Context, post *models.Post) error
	getByIDFn          func(ctx context.Context, id string) (*models.Post, error)
	listApprovedFn     func(ctx context.Context) ([]*models.Post, error)
	listPendingFn      func(ctx context.Context) ([]*models.Post, error)
	listVisibleFn      func(ctx context.Context, threshold int) ([]*models.Post, error)
	updateStatusFn     func(ctx context.Context, id string, status models.PostStatus) error
	deleteFn           func(ctx context.Context, id string) error
	incrementReportsFn func(ctx context.Context, id string) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	if s.createFn != nil {
		return s.createFn(ctx, post)
	}
	return nil
}

func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("post", id)
}

func (s *postRepoStub) ListApproved(ctx context.Context) ([]*models.Post, error) {
	if s.listApprovedFn != nil {
		return s.listApprovedFn(ctx)
	}
	return nil, nil
}

func (s *postRepoStub) ListPending(ctx context.Context) ([]*models.Post, error) {
	if s.listPendingFn != nil {
		return s.listPendingFn(ctx)
	}
	return nil, nil
}

func (s *postRepoStub) ListVisible(ctx context.Context, threshold int) ([]*models.Post, error) {
	if s.listVisibleFn != nil {
		return s.listVisibleFn(ctx, threshold)
	}
	return nil, nil
}

func (s *postRepoStub) UpdateStatus(ctx context.Context, id string, status models.PostStatus) error {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (s *postRepoStub) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *postRepoStub) IncrementReports(ctx context.Context, id string) error {
	if s.incrementReportsFn != nil {
		return s.incrementReportsFn(ctx, id)
	}
	return nil
}

type actionRepoStub struct {
	recorded []*models.ModerationAction
	recordFn func(ctx context.Context, action *models.ModerationAction) error
}

func (s *actionRepoStub) Record(ctx context.Context, action *models.ModerationAction) error {
	if s.recordFn != nil {
		return s.recordFn(ctx, action)
	}
	s.recorded = append(s.recorded, action)
	return nil
}

func (s *actionRepoStub) ListRecent(ctx context.Context, limit int) ([]*models.ModerationAction, error) {
	return s.recorded, nil
}

type hubStub struct {
	broadcasts map[string][][]*models.Post
	subscribed []string
}

func newHubStub() *hubStub {
	return &hubStub{broadcasts: make(map[string][][]*models.Post)}
}

func (s *hubStub) Subscribe(ctx context.Context, stream string, initial []*models.Post) (<-chan []*models.Post, func()) {
	s.subscribed = append(s.subscribed, stream)
	ch := make(chan []*models.Post, 1)
	ch <- initial
	return ch, func() {}
}

func (s *hubStub) Broadcast(stream string, snapshot []*models.Post) {
	s.broadcasts[stream] = append(s.broadcasts[stream], snapshot)
}

const moderatorEmail = "mod@example.com"

func newTestEngine(posts *postRepoStub, actions *actionRepoStub, hub *hubStub) *Engine {
	validator := validation.NewValidator(validation.Policy{
		MinAge:          18,
		MaxIntroLen:     280,
		BannedWords:     []string{"spam"},
		RequireNickname: true,
	})
	gate := NewAccessGate([]string{moderatorEmail})
	return NewEngine(posts, actions, validator, gate, hub, 3)
}

func validSubmission() validation.Submission {
	return validation.Submission{
		Nickname: "Vic",
		Age:      24,
		Contact:  "vic@example.com",
		Intro:    "Looking for hiking partners.",
		Consent:  true,
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestSubmitStoresPendingAndRefreshesQueue(t *testing.T) {
	t.Parallel()

	var created *models.Post
	posts := &postRepoStub{
		createFn: func(ctx context.Context, post *models.Post) error {
			post.ID = "generated-id"
			created = post
			return nil
		},
		listPendingFn: func(ctx context.Context) ([]*models.Post, error) {
			return []*models.Post{{ID: "generated-id"}}, nil
		},
	}
	hub := newHubStub()
	engine := newTestEngine(posts, &actionRepoStub{}, hub)

	got, err := engine.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "generated-id", got.ID)

	require.Len(t, hub.broadcasts[notifications.StreamQueue], 1)
	assert.Empty(t, hub.broadcasts[notifications.StreamFeed])
}

func TestSubmitRejectsInvalidWithoutStoring(t *testing.T) {
	t.Parallel()

	posts := &postRepoStub{
		createFn: func(ctx context.Context, post *models.Post) error {
			t.Fatal("create should not be called for invalid submissions")
			return nil
		},
	}
	engine := newTestEngine(posts, &actionRepoStub{}, newHubStub())

	in := validSubmission()
	in.Age = 15
	_, err := engine.Submit(context.Background(), in)
	assertCode(t, err, models.CodeAgeTooLow)
}

func TestDecisionsRequireModerator(t *testing.T) {
	t.Parallel()

	posts := &postRepoStub{
		updateStatusFn: func(ctx context.Context, id string, status models.PostStatus) error {
			t.Fatal("store should not be touched before authorization")
			return nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			t.Fatal("store should not be touched before authorization")
			return nil
		},
	}
	engine := newTestEngine(posts, &actionRepoStub{}, newHubStub())
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{name: "approve", call: func() error { return engine.Approve(ctx, "stranger@example.com", "p1") }},
		{name: "unapprove", call: func() error { return engine.Unapprove(ctx, "stranger@example.com", "p1") }},
		{name: "delete", call: func() error { return engine.Delete(ctx, "stranger@example.com", "p1") }},
		{name: "pending queue", call: func() error {
			_, err := engine.PendingQueue(ctx, "stranger@example.com")
			return err
		}},
		{name: "watch pending", call: func() error {
			_, _, err := engine.WatchPending(ctx, "stranger@example.com")
			return err
		}},
		{name: "recent actions", call: func() error {
			_, err := engine.RecentActions(ctx, "stranger@example.com", 10)
			return err
		}},
		{name: "approved list", call: func() error {
			_, err := engine.ApprovedList(ctx, "stranger@example.com")
			return err
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertCode(t, tc.call(), models.CodeUnauthorized)
		})
	}
}

func TestApproveUpdatesStatusAndBroadcastsBothStreams(t *testing.T) {
	t.Parallel()

	var gotStatus models.PostStatus
	posts := &postRepoStub{
		updateStatusFn: func(ctx context.Context, id string, status models.PostStatus) error {
			gotStatus = status
			return nil
		},
	}
	actions := &actionRepoStub{}
	hub := newHubStub()
	engine := newTestEngine(posts, actions, hub)

	require.NoError(t, engine.Approve(context.Background(), moderatorEmail, "p1"))
	assert.Equal(t, models.StatusApproved, gotStatus)

	require.Len(t, actions.recorded, 1)
	assert.Equal(t, models.ActionApprove, actions.recorded[0].Action)
	assert.Equal(t, "p1", actions.recorded[0].PostID)
	assert.Equal(t, moderatorEmail, actions.recorded[0].ModeratorEmail)

	assert.Len(t, hub.broadcasts[notifications.StreamFeed], 1)
	assert.Len(t, hub.broadcasts[notifications.StreamQueue], 1)
}

func TestUnapproveReturnsPostToQueue(t *testing.T) {
	t.Parallel()

	var gotStatus models.PostStatus
	posts := &postRepoStub{
		updateStatusFn: func(ctx context.Context, id string, status models.PostStatus) error {
			gotStatus = status
			return nil
		},
	}
	actions := &actionRepoStub{}
	engine := newTestEngine(posts, actions, newHubStub())

	require.NoError(t, engine.Unapprove(context.Background(), moderatorEmail, "p1"))
	assert.Equal(t, models.StatusPending, gotStatus)
	require.Len(t, actions.recorded, 1)
	assert.Equal(t, models.ActionUnapprove, actions.recorded[0].Action)
}

func TestApproveUnknownPostReturnsNotFound(t *testing.T) {
	t.Parallel()

	posts := &postRepoStub{
		updateStatusFn: func(ctx context.Context, id string, status models.PostStatus) error {
			return models.NewNotFoundError("post", id)
		},
	}
	engine := newTestEngine(posts, &actionRepoStub{}, newHubStub())

	assertCode(t, engine.Approve(context.Background(), moderatorEmail, "missing"), models.CodeNotFound)
}

func TestDeleteRecordsAuditRow(t *testing.T) {
	t.Parallel()

	var deleted string
	posts := &postRepoStub{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	actions := &actionRepoStub{}
	hub := newHubStub()
	engine := newTestEngine(posts, actions, hub)

	require.NoError(t, engine.Delete(context.Background(), moderatorEmail, "p1"))
	assert.Equal(t, "p1", deleted)
	require.Len(t, actions.recorded, 1)
	assert.Equal(t, models.ActionDelete, actions.recorded[0].Action)
	assert.Len(t, hub.broadcasts[notifications.StreamFeed], 1)
	assert.Len(t, hub.broadcasts[notifications.StreamQueue], 1)
}

func TestDecisionSurvivesAuditFailure(t *testing.T) {
	t.Parallel()

	posts := &postRepoStub{}
	actions := &actionRepoStub{
		recordFn: func(ctx context.Context, action *models.ModerationAction) error {
			return models.NewStoreUnavailableError(errors.New("audit table offline"))
		},
	}
	engine := newTestEngine(posts, actions, newHubStub())

	assert.NoError(t, engine.Approve(context.Background(), moderatorEmail, "p1"))
}

func TestReportIsOpenToAnyoneAndRefreshesFeed(t *testing.T) {
	t.Parallel()

	var reported string
	posts := &postRepoStub{
		incrementReportsFn: func(ctx context.Context, id string) error {
			reported = id
			return nil
		},
	}
	hub := newHubStub()
	engine := newTestEngine(posts, &actionRepoStub{}, hub)

	require.NoError(t, engine.Report(context.Background(), "p1"))
	assert.Equal(t, "p1", reported)
	assert.Len(t, hub.broadcasts[notifications.StreamFeed], 1)
	assert.Empty(t, hub.broadcasts[notifications.StreamQueue])
}

func TestReportUnknownPostReturnsNotFound(t *testing.T) {
	t.Parallel()

	posts := &postRepoStub{
		incrementReportsFn: func(ctx context.Context, id string) error {
			return models.NewNotFoundError("post", id)
		},
	}
	engine := newTestEngine(posts, &actionRepoStub{}, newHubStub())

	assertCode(t, engine.Report(context.Background(), "missing"), models.CodeNotFound)
}

func TestVisibleFeedUsesConfiguredThreshold(t *testing.T) {
	t.Parallel()

	var gotThreshold int
	posts := &postRepoStub{
		listVisibleFn: func(ctx context.Context, threshold int) ([]*models.Post, error) {
			gotThreshold = threshold
			return []*models.Post{{ID: "p1"}}, nil
		},
	}
	engine := newTestEngine(posts, &actionRepoStub{}, newHubStub())

	feed, err := engine.VisibleFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, 3, gotThreshold)
}

func TestApprovedListIncludesAutoHiddenPosts(t *testing.T) {
	t.Parallel()

	posts := &postRepoStub{
		listApprovedFn: func(ctx context.Context) ([]*models.Post, error) {
			return []*models.Post{
				{ID: "visible", Status: models.StatusApproved, ReportsCount: 0},
				{ID: "hidden", Status: models.StatusApproved, ReportsCount: 5},
			}, nil
		},
	}
	engine := newTestEngine(posts, &actionRepoStub{}, newHubStub())

	list, err := engine.ApprovedList(context.Background(), moderatorEmail)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hidden", list[1].ID)
}

func TestWatchApprovedDeliversInitialSnapshot(t *testing.T) {
	t.Parallel()

	posts := &postRepoStub{
		listVisibleFn: func(ctx context.Context, threshold int) ([]*models.Post, error) {
			return []*models.Post{{ID: "p1"}, {ID: "p2"}}, nil
		},
	}
	hub := newHubStub()
	engine := newTestEngine(posts, &actionRepoStub{}, hub)

	ch, cancel, err := engine.WatchApproved(context.Background())
	require.NoError(t, err)
	defer cancel()

	initial := <-ch
	require.Len(t, initial, 2)
	assert.Equal(t, []string{notifications.StreamFeed}, hub.subscribed)
}

func TestWatchPendingRequiresModerator(t *testing.T) {
	t.Parallel()

	posts := &postRepoStub{
		listPendingFn: func(ctx context.Context) ([]*models.Post, error) {
			return []*models.Post{{ID: "p1"}}, nil
		},
	}
	hub := newHubStub()
	engine := newTestEngine(posts, &actionRepoStub{}, hub)

	ch, cancel, err := engine.WatchPending(context.Background(), moderatorEmail)
	require.NoError(t, err)
	defer cancel()

	initial := <-ch
	require.Len(t, initial, 1)
	assert.Equal(t, []string{notifications.StreamQueue}, hub.subscribed)
}
