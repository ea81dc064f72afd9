package repository

import (
	"context"
	"errors"

	"konishi/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByPublicID(ctx context.Context, publicID string) (*models.Post, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Post, error)
	ListChronological(ctx context.Context) ([]models.Post, error)
	ListEvents(ctx context.Context) ([]ActivityEvent, error)
}

type postRepository struct {
	db  *gorm.DB
	obs queryObserver
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, obs: newQueryObserver("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	ctx, finish := r.obs.start(ctx, "create")
	return finish(r.db.WithContext(ctx).Create(post).Error)
}

func (r *postRepository) GetByPublicID(ctx context.Context, publicID string) (*models.Post, error) {
	ctx, finish := r.obs.start(ctx, "get_by_public_id")
	var post models.Post
	err := finish(r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&post).Error)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", publicID)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListByIDs returns the posts with the given ids in id order. Unknown ids are
// simply absent.
func (r *postRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Post, error) {
	ctx, finish := r.obs.start(ctx, "list_by_ids")
	posts, err := findIn[models.Post](ctx, r.db, "id", ids, "id ASC")
	if err = finish(err); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListChronological returns every post, newest first, ties broken by id.
func (r *postRepository) ListChronological(ctx context.Context) ([]models.Post, error) {
	ctx, finish := r.obs.start(ctx, "list_chronological")
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Select("id", "created").
		Order("created DESC").
		Order("id ASC").
		Find(&posts).Error
	if err = finish(err); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListEvents returns one creation event per post in id order.
func (r *postRepository) ListEvents(ctx context.Context) ([]ActivityEvent, error) {
	ctx, finish := r.obs.start(ctx, "list_events")
	var events []ActivityEvent
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("id AS post_id, created AS occurred_at").
		Order("id ASC").
		Scan(&events).Error
	if err = finish(err); err != nil {
		return nil, err
	}
	return events, nil
}
