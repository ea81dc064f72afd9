package service

import (
	"context"
	"testing"

	"konishi/internal/featureflags"
	"konishi/internal/models"
	"konishi/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedService_Chronological(t *testing.T) {
	posts := postsStub(
		models.Post{ID: 3, Created: minutes(30)},
		models.Post{ID: 1, Created: minutes(20)},
		models.Post{ID: 2, Created: minutes(10)},
	)
	svc := NewFeedService(posts, commentsStub(), featureflags.NewManager(""))

	resp, err := svc.GetFeed(context.Background(), GetFeedInput{Strategy: "chronological"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, models.MessageFeedSent, resp.Message)
	assert.Equal(t, []uint{3, 1, 2}, resp.PostIDs)
}

func TestFeedService_ActivityRanksByLatestTouch(t *testing.T) {
	// p1 is older than p2 but has a newer comment.
	posts := postsStub(
		models.Post{ID: 1, Created: minutes(0)},
		models.Post{ID: 2, Created: minutes(10)},
		models.Post{ID: 3, Created: minutes(5)},
	)
	comments := commentsStub(
		models.Comment{ID: 1, PostID: 1, Created: minutes(20)},
		models.Comment{ID: 2, PostID: 1, Created: minutes(15)},
		models.Comment{ID: 3, PostID: 3, Created: minutes(6)},
	)
	svc := NewFeedService(posts, comments, featureflags.NewManager(""))

	resp, err := svc.GetFeed(context.Background(), GetFeedInput{Strategy: "activity"})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, resp.PostIDs)
}

func TestMergeActivity(t *testing.T) {
	tests := []struct {
		name     string
		comments []repository.ActivityEvent
		posts    []repository.ActivityEvent
		want     []uint
	}{
		{
			name:  "posts only",
			posts: []repository.ActivityEvent{{PostID: 1, OccurredAt: minutes(1)}, {PostID: 2, OccurredAt: minutes(2)}},
			want:  []uint{2, 1},
		},
		{
			name:     "each post once",
			comments: []repository.ActivityEvent{{PostID: 1, OccurredAt: minutes(9)}, {PostID: 1, OccurredAt: minutes(8)}},
			posts:    []repository.ActivityEvent{{PostID: 1, OccurredAt: minutes(1)}},
			want:     []uint{1},
		},
		{
			name:     "comment wins ties over post events",
			comments: []repository.ActivityEvent{{PostID: 2, OccurredAt: minutes(5)}},
			posts:    []repository.ActivityEvent{{PostID: 1, OccurredAt: minutes(5)}, {PostID: 2, OccurredAt: minutes(0)}},
			want:     []uint{2, 1},
		},
		{
			name: "empty",
			want: []uint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeActivity(tt.comments, tt.posts))
		})
	}
}

func TestFeedService_EmptyStore(t *testing.T) {
	svc := NewFeedService(postsStub(), commentsStub(), featureflags.NewManager(""))

	for _, strategy := range []string{"activity", "chronological"} {
		resp, err := svc.GetFeed(context.Background(), GetFeedInput{Strategy: strategy})
		require.NoError(t, err)
		assert.NotNil(t, resp.PostIDs, strategy)
		assert.Empty(t, resp.PostIDs, strategy)
	}
}

func TestFeedService_UnknownStrategy(t *testing.T) {
	posts := postsStub()
	svc := NewFeedService(posts, commentsStub(), featureflags.NewManager(""))

	_, err := svc.GetFeed(context.Background(), GetFeedInput{Strategy: "relevance"})
	assertAppError(t, err, models.CodeValidation)
	assert.Zero(t, posts.calls)
}

func TestFeedService_StoreFailurePropagates(t *testing.T) {
	posts := postsStub()
	posts.listChronologicalFn = func(context.Context) ([]models.Post, error) { return nil, errStoreDown }
	comments := commentsStub()
	comments.listEventsFn = func(context.Context) ([]repository.ActivityEvent, error) { return nil, errStoreDown }
	svc := NewFeedService(posts, comments, featureflags.NewManager(""))

	_, err := svc.GetFeed(context.Background(), GetFeedInput{Strategy: "chronological"})
	assertAppError(t, err, models.CodeStoreUnavailable)

	_, err = svc.GetFeed(context.Background(), GetFeedInput{Strategy: "activity"})
	assertAppError(t, err, models.CodeStoreUnavailable)
}

func TestFeedService_DefaultStrategy(t *testing.T) {
	tests := []struct {
		flags string
		want  FeedStrategy
	}{
		{"", StrategyActivity},
		{"activity_feed=on", StrategyActivity},
		{"activity_feed=off", StrategyChronological},
		{"activity_feed=0%", StrategyChronological},
	}

	for _, tt := range tests {
		t.Run(tt.flags, func(t *testing.T) {
			svc := NewFeedService(postsStub(), commentsStub(), featureflags.NewManager(tt.flags))
			assert.Equal(t, tt.want, svc.DefaultStrategy(42))
		})
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy(" Activity ")
	require.NoError(t, err)
	assert.Equal(t, StrategyActivity, s)

	s, err = ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, FeedStrategy(""), s)

	_, err = ParseStrategy("trending")
	assertAppError(t, err, models.CodeValidation)
}
