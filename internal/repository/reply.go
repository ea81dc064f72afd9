package repository

import (
	"context"

	"konishi/internal/models"

	"gorm.io/gorm"
)

// ReplyRepository defines interface for reply operations
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	ListPreviewByCommentIDs(ctx context.Context, commentIDs []uint, perComment int) ([]models.Reply, error)
	CountByCommentIDs(ctx context.Context, commentIDs []uint) (map[uint]int, error)
}

type replyRepository struct {
	db  *gorm.DB
	obs queryObserver
}

// NewReplyRepository creates a new ReplyRepository
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db, obs: newQueryObserver("replies")}
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	ctx, finish := r.obs.start(ctx, "create")
	return finish(r.db.WithContext(ctx).Create(reply).Error)
}

func (r *replyRepository) ListPreviewByCommentIDs(ctx context.Context, commentIDs []uint, perComment int) ([]models.Reply, error) {
	ctx, finish := r.obs.start(ctx, "list_preview_by_comment_ids")
	replies, err := findPreviewIn[models.Reply](ctx, r.db, "replies", "comment_id", commentIDs, perComment)
	if err = finish(err); err != nil {
		return nil, err
	}
	return replies, nil
}

func (r *replyRepository) CountByCommentIDs(ctx context.Context, commentIDs []uint) (map[uint]int, error) {
	ctx, finish := r.obs.start(ctx, "count_by_comment_ids")
	counts, err := countIn(ctx, r.db, "replies", "comment_id", commentIDs)
	if err = finish(err); err != nil {
		return nil, err
	}
	return counts, nil
}
