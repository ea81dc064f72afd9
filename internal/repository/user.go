package repository

import (
	"context"
	"errors"

	"konishi/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user lookups
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByPublicID(ctx context.Context, publicID string) (*models.User, error)
	ListByPublicIDs(ctx context.Context, publicIDs []string) ([]models.User, error)
}

type userRepository struct {
	db  *gorm.DB
	obs queryObserver
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, obs: newQueryObserver("users")}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	ctx, finish := r.obs.start(ctx, "create")
	return finish(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetByPublicID(ctx context.Context, publicID string) (*models.User, error) {
	ctx, finish := r.obs.start(ctx, "get_by_public_id")
	var user models.User
	err := finish(r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&user).Error)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("User", publicID)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListByPublicIDs(ctx context.Context, publicIDs []string) ([]models.User, error) {
	var users []models.User
	if len(publicIDs) == 0 {
		return users, nil
	}
	ctx, finish := r.obs.start(ctx, "list_by_public_ids")
	err := finish(r.db.WithContext(ctx).Where("public_id IN ?", publicIDs).Find(&users).Error)
	if err != nil {
		return nil, err
	}
	r.obs.log.LogRead(ctx, "list_by_public_ids", map[string]interface{}{"requested": len(publicIDs), "found": len(users)})
	return users, nil
}
