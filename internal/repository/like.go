package repository

import (
	"context"

	"konishi/internal/models"

	"gorm.io/gorm"
)

// LikeRepository loads like records for batches of posts, comments and replies.
type LikeRepository interface {
	Create(ctx context.Context, like interface{}) error
	ListPostLikes(ctx context.Context, postIDs []uint) ([]models.PostLike, error)
	ListCommentLikes(ctx context.Context, commentIDs []uint) ([]models.CommentLike, error)
	ListReplyLikes(ctx context.Context, replyIDs []uint) ([]models.ReplyLike, error)
}

type likeRepository struct {
	db  *gorm.DB
	obs queryObserver
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db, obs: newQueryObserver("likes")}
}

// Create inserts a *models.PostLike, *models.CommentLike or *models.ReplyLike.
func (r *likeRepository) Create(ctx context.Context, like interface{}) error {
	ctx, finish := r.obs.start(ctx, "create")
	return finish(r.db.WithContext(ctx).Create(like).Error)
}

func (r *likeRepository) ListPostLikes(ctx context.Context, postIDs []uint) ([]models.PostLike, error) {
	ctx, finish := r.obs.start(ctx, "list_post_likes")
	likes, err := findIn[models.PostLike](ctx, r.db, "post_id", postIDs, "liked_on DESC, id ASC")
	if err = finish(err); err != nil {
		return nil, err
	}
	return likes, nil
}

func (r *likeRepository) ListCommentLikes(ctx context.Context, commentIDs []uint) ([]models.CommentLike, error) {
	ctx, finish := r.obs.start(ctx, "list_comment_likes")
	likes, err := findIn[models.CommentLike](ctx, r.db, "comment_id", commentIDs, "liked_on DESC, id ASC")
	if err = finish(err); err != nil {
		return nil, err
	}
	return likes, nil
}

func (r *likeRepository) ListReplyLikes(ctx context.Context, replyIDs []uint) ([]models.ReplyLike, error) {
	ctx, finish := r.obs.start(ctx, "list_reply_likes")
	likes, err := findIn[models.ReplyLike](ctx, r.db, "reply_id", replyIDs, "liked_on DESC, id ASC")
	if err = finish(err); err != nil {
		return nil, err
	}
	return likes, nil
}
