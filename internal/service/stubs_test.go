package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"konishi/internal/models"
	"konishi/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn          func(context.Context, *models.User) error
	getByPublicIDFn   func(context.Context, string) (*models.User, error)
	listByPublicIDsFn func(context.Context, []string) ([]models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByPublicID(ctx context.Context, publicID string) (*models.User, error) {
	return s.getByPublicIDFn(ctx, publicID)
}
func (s *userRepoStub) ListByPublicIDs(ctx context.Context, publicIDs []string) ([]models.User, error) {
	return s.listByPublicIDsFn(ctx, publicIDs)
}

// usersStub serves a fixed set of users.
func usersStub(users ...models.User) *userRepoStub {
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.PublicID] = u
	}
	return &userRepoStub{
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		getByPublicIDFn: func(_ context.Context, id string) (*models.User, error) {
			u, ok := byID[id]
			if !ok {
				return nil, models.NewNotFoundError("User", id)
			}
			return &u, nil
		},
		listByPublicIDsFn: func(_ context.Context, ids []string) ([]models.User, error) {
			var out []models.User
			for _, id := range ids {
				if u, ok := byID[id]; ok {
					out = append(out, u)
				}
			}
			return out, nil
		},
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn            func(context.Context, *models.Post) error
	getByPublicIDFn     func(context.Context, string) (*models.Post, error)
	listByIDsFn         func(context.Context, []uint) ([]models.Post, error)
	listChronologicalFn func(context.Context) ([]models.Post, error)
	listEventsFn        func(context.Context) ([]repository.ActivityEvent, error)
	calls               int
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	s.calls++
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByPublicID(ctx context.Context, publicID string) (*models.Post, error) {
	s.calls++
	return s.getByPublicIDFn(ctx, publicID)
}
func (s *postRepoStub) ListByIDs(ctx context.Context, ids []uint) ([]models.Post, error) {
	s.calls++
	return s.listByIDsFn(ctx, ids)
}
func (s *postRepoStub) ListChronological(ctx context.Context) ([]models.Post, error) {
	s.calls++
	return s.listChronologicalFn(ctx)
}
func (s *postRepoStub) ListEvents(ctx context.Context) ([]repository.ActivityEvent, error) {
	s.calls++
	return s.listEventsFn(ctx)
}

// postsStub serves a fixed set of posts. ListByIDs returns matches in id order
// like the real store.
func postsStub(posts ...models.Post) *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByPublicIDFn: func(_ context.Context, id string) (*models.Post, error) {
			for _, p := range posts {
				if p.PublicID == id {
					return &p, nil
				}
			}
			return nil, models.NewNotFoundError("Post", id)
		},
		listByIDsFn: func(_ context.Context, ids []uint) ([]models.Post, error) {
			want := make(map[uint]bool, len(ids))
			for _, id := range ids {
				want[id] = true
			}
			var out []models.Post
			for _, p := range posts {
				if want[p.ID] {
					out = append(out, p)
				}
			}
			return out, nil
		},
		listChronologicalFn: func(_ context.Context) ([]models.Post, error) { return posts, nil },
		listEventsFn: func(_ context.Context) ([]repository.ActivityEvent, error) {
			events := make([]repository.ActivityEvent, 0, len(posts))
			for _, p := range posts {
				events = append(events, repository.ActivityEvent{PostID: p.ID, OccurredAt: p.Created})
			}
			return events, nil
		},
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn               func(context.Context, *models.Comment) error
	listPreviewByPostIDsFn func(context.Context, []uint, int) ([]models.Comment, error)
	countByPostIDsFn       func(context.Context, []uint) (map[uint]int, error)
	listEventsFn           func(context.Context) ([]repository.ActivityEvent, error)
	calls                  int
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	s.calls++
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) ListPreviewByPostIDs(ctx context.Context, postIDs []uint, perPost int) ([]models.Comment, error) {
	s.calls++
	return s.listPreviewByPostIDsFn(ctx, postIDs, perPost)
}
func (s *commentRepoStub) CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int, error) {
	s.calls++
	return s.countByPostIDsFn(ctx, postIDs)
}
func (s *commentRepoStub) ListEvents(ctx context.Context) ([]repository.ActivityEvent, error) {
	s.calls++
	return s.listEventsFn(ctx)
}

// commentsStub serves comments without applying any cap or order, so the
// hydrator's own ordering is what the tests observe.
func commentsStub(comments ...models.Comment) *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		listPreviewByPostIDsFn: func(_ context.Context, postIDs []uint, _ int) ([]models.Comment, error) {
			want := idSet(postIDs)
			var out []models.Comment
			for _, c := range comments {
				if want[c.PostID] {
					out = append(out, c)
				}
			}
			return out, nil
		},
		countByPostIDsFn: func(_ context.Context, postIDs []uint) (map[uint]int, error) {
			want := idSet(postIDs)
			counts := map[uint]int{}
			for _, c := range comments {
				if want[c.PostID] {
					counts[c.PostID]++
				}
			}
			return counts, nil
		},
		listEventsFn: func(_ context.Context) ([]repository.ActivityEvent, error) {
			events := make([]repository.ActivityEvent, 0, len(comments))
			for _, c := range comments {
				events = append(events, repository.ActivityEvent{PostID: c.PostID, OccurredAt: c.Created})
			}
			return events, nil
		},
	}
}

// replyRepoStub is a stub for repository.ReplyRepository.
type replyRepoStub struct {
	createFn                  func(context.Context, *models.Reply) error
	listPreviewByCommentIDsFn func(context.Context, []uint, int) ([]models.Reply, error)
	countByCommentIDsFn       func(context.Context, []uint) (map[uint]int, error)
}

func (s *replyRepoStub) Create(ctx context.Context, r *models.Reply) error {
	return s.createFn(ctx, r)
}
func (s *replyRepoStub) ListPreviewByCommentIDs(ctx context.Context, commentIDs []uint, perComment int) ([]models.Reply, error) {
	return s.listPreviewByCommentIDsFn(ctx, commentIDs, perComment)
}
func (s *replyRepoStub) CountByCommentIDs(ctx context.Context, commentIDs []uint) (map[uint]int, error) {
	return s.countByCommentIDsFn(ctx, commentIDs)
}

func repliesStub(replies ...models.Reply) *replyRepoStub {
	return &replyRepoStub{
		createFn: func(_ context.Context, _ *models.Reply) error { return nil },
		listPreviewByCommentIDsFn: func(_ context.Context, commentIDs []uint, _ int) ([]models.Reply, error) {
			want := idSet(commentIDs)
			var out []models.Reply
			for _, r := range replies {
				if want[r.CommentID] {
					out = append(out, r)
				}
			}
			return out, nil
		},
		countByCommentIDsFn: func(_ context.Context, commentIDs []uint) (map[uint]int, error) {
			want := idSet(commentIDs)
			counts := map[uint]int{}
			for _, r := range replies {
				if want[r.CommentID] {
					counts[r.CommentID]++
				}
			}
			return counts, nil
		},
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	postLikes    []models.PostLike
	commentLikes []models.CommentLike
	replyLikes   []models.ReplyLike
	err          error
}

func (s *likeRepoStub) Create(_ context.Context, _ interface{}) error { return s.err }

func (s *likeRepoStub) ListPostLikes(_ context.Context, ids []uint) ([]models.PostLike, error) {
	want := idSet(ids)
	var out []models.PostLike
	for _, l := range s.postLikes {
		if want[l.PostID] {
			out = append(out, l)
		}
	}
	return out, s.err
}

func (s *likeRepoStub) ListCommentLikes(_ context.Context, ids []uint) ([]models.CommentLike, error) {
	want := idSet(ids)
	var out []models.CommentLike
	for _, l := range s.commentLikes {
		if want[l.CommentID] {
			out = append(out, l)
		}
	}
	return out, s.err
}

func (s *likeRepoStub) ListReplyLikes(_ context.Context, ids []uint) ([]models.ReplyLike, error) {
	want := idSet(ids)
	var out []models.ReplyLike
	for _, l := range s.replyLikes {
		if want[l.ReplyID] {
			out = append(out, l)
		}
	}
	return out, s.err
}

// imageResolverStub is a stub for upload.ImageResolver.
type imageResolverStub struct {
	getImageFn func(context.Context, string, string) (string, error)
}

func (s *imageResolverStub) GetImage(ctx context.Context, fileRef, namespace string) (string, error) {
	return s.getImageFn(ctx, fileRef, namespace)
}

func staticImages() *imageResolverStub {
	return &imageResolverStub{
		getImageFn: func(_ context.Context, fileRef, namespace string) (string, error) {
			return "https://cdn.test/" + namespace + "/" + fileRef, nil
		},
	}
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func minutes(n int) time.Time {
	return t0.Add(time.Duration(n) * time.Minute)
}

var (
	alice = models.User{ID: 1, PublicID: "111111111111111", Username: "alice", FullName: "Alice A", ProfilePicture: "alice.png"}
	bob   = models.User{ID: 2, PublicID: "222222222222222", Username: "bob", FullName: "Bob B"}
)

var errStoreDown = models.NewStoreUnavailableError(errors.New("connection refused"))

// assertAppError asserts that err is an AppError with code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
