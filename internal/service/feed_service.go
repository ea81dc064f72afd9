package service

import (
	"context"
	"slices"
	"strings"

	"konishi/internal/featureflags"
	"konishi/internal/models"
	"konishi/internal/observability"
	"konishi/internal/repository"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
)

// FeedStrategy names a feed ranking.
type FeedStrategy string

const (
	// StrategyActivity ranks posts by their most recent touch: creation or comment.
	StrategyActivity FeedStrategy = "activity"
	// StrategyChronological ranks posts by creation time only.
	StrategyChronological FeedStrategy = "chronological"
)

// ParseStrategy validates a strategy name. The empty name is allowed and
// means "use the default".
func ParseStrategy(raw string) (FeedStrategy, error) {
	switch s := FeedStrategy(strings.ToLower(strings.TrimSpace(raw))); s {
	case StrategyActivity, StrategyChronological, "":
		return s, nil
	default:
		return "", models.NewValidationError("Unknown feed strategy: " + raw)
	}
}

// FeedService assembles ordered post id feeds.
type FeedService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	flags    *featureflags.Manager
}

type GetFeedInput struct {
	Strategy string
	ViewerID uint
}

func NewFeedService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	flags *featureflags.Manager,
) *FeedService {
	return &FeedService{
		posts:    posts,
		comments: comments,
		flags:    flags,
	}
}

// DefaultStrategy picks the strategy used when the caller names none.
func (s *FeedService) DefaultStrategy(viewerID uint) FeedStrategy {
	if !s.flags.Defined(featureflags.ActivityFeed) || s.flags.Enabled(featureflags.ActivityFeed, viewerID) {
		return StrategyActivity
	}
	return StrategyChronological
}

// GetFeed returns the duplicate-free post id feed for the requested strategy.
func (s *FeedService) GetFeed(ctx context.Context, in GetFeedInput) (*models.FeedResponse, error) {
	strategy, err := ParseStrategy(in.Strategy)
	if err != nil {
		return nil, err
	}
	if strategy == "" {
		strategy = s.DefaultStrategy(in.ViewerID)
	}

	span, ctx := observability.NewSpan(ctx, "FeedService.GetFeed",
		attribute.String("feed.strategy", string(strategy)),
	)
	defer span.End()

	var ids []uint
	switch strategy {
	case StrategyChronological:
		ids, err = s.GetChronological(ctx)
	default:
		ids, err = s.GetActivity(ctx)
	}
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	observability.FeedAssembled.WithLabelValues(string(strategy)).Inc()
	observability.FeedLength.WithLabelValues(string(strategy)).Observe(float64(len(ids)))
	zerolog.Ctx(ctx).Debug().Str("strategy", string(strategy)).Int("count", len(ids)).Msg("feed assembled")

	return &models.FeedResponse{
		Success: true,
		Message: models.MessageFeedSent,
		PostIDs: ids,
	}, nil
}

// GetChronological returns every post id, newest post first.
func (s *FeedService) GetChronological(ctx context.Context) ([]uint, error) {
	posts, err := s.posts.ListChronological(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Uniq(lo.Map(posts, func(p models.Post, _ int) uint { return p.ID })), nil
}

// GetActivity returns post ids ordered by their most recent activity.
func (s *FeedService) GetActivity(ctx context.Context) ([]uint, error) {
	commentEvents, err := s.comments.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	postEvents, err := s.posts.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	return mergeActivity(commentEvents, postEvents), nil
}

// mergeActivity orders comment events then post events by time, newest first,
// keeping the input order for equal times, and emits each post on first sight.
func mergeActivity(commentEvents, postEvents []repository.ActivityEvent) []uint {
	events := make([]repository.ActivityEvent, 0, len(commentEvents)+len(postEvents))
	events = append(events, commentEvents...)
	events = append(events, postEvents...)

	slices.SortStableFunc(events, func(a, b repository.ActivityEvent) int {
		return b.OccurredAt.Compare(a.OccurredAt)
	})

	return lo.Uniq(lo.Map(events, func(e repository.ActivityEvent, _ int) uint { return e.PostID }))
}
