package repository

import (
	"context"

	"konishi/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListPreviewByPostIDs(ctx context.Context, postIDs []uint, perPost int) ([]models.Comment, error)
	CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int, error)
	ListEvents(ctx context.Context) ([]ActivityEvent, error)
}

type commentRepository struct {
	db  *gorm.DB
	obs queryObserver
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, obs: newQueryObserver("comments")}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	ctx, finish := r.obs.start(ctx, "create")
	return finish(r.db.WithContext(ctx).Create(comment).Error)
}

// ListPreviewByPostIDs returns up to perPost comments for each post, ordered
// by post id then comment id.
func (r *commentRepository) ListPreviewByPostIDs(ctx context.Context, postIDs []uint, perPost int) ([]models.Comment, error) {
	ctx, finish := r.obs.start(ctx, "list_preview_by_post_ids")
	comments, err := findPreviewIn[models.Comment](ctx, r.db, "comments", "post_id", postIDs, perPost)
	if err = finish(err); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int, error) {
	ctx, finish := r.obs.start(ctx, "count_by_post_ids")
	counts, err := countIn(ctx, r.db, "comments", "post_id", postIDs)
	if err = finish(err); err != nil {
		return nil, err
	}
	return counts, nil
}

// ListEvents returns one event per comment, keyed by the commented post, in comment id order.
func (r *commentRepository) ListEvents(ctx context.Context) ([]ActivityEvent, error) {
	ctx, finish := r.obs.start(ctx, "list_events")
	var events []ActivityEvent
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("post_id, created AS occurred_at").
		Order("id ASC").
		Scan(&events).Error
	if err = finish(err); err != nil {
		return nil, err
	}
	return events, nil
}
