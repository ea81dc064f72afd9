package service

import (
	"context"

	"konishi/internal/models"
	"konishi/internal/observability"
	"konishi/internal/repository"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// AuthorService resolves creator public ids into author projections.
type AuthorService struct {
	users repository.UserRepository
}

func NewAuthorService(users repository.UserRepository) *AuthorService {
	return &AuthorService{users: users}
}

// LoadAuthor returns the author view for publicID, or a NOT_FOUND AppError.
func (s *AuthorService) LoadAuthor(ctx context.Context, publicID string) (*models.AuthorView, error) {
	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	view := toAuthorView(*user)
	return &view, nil
}

// LoadAuthors resolves every distinct public id in one query. Unknown ids are
// absent from the result.
func (s *AuthorService) LoadAuthors(ctx context.Context, publicIDs []string) (map[string]models.AuthorView, error) {
	ids := lo.Uniq(lo.Compact(publicIDs))
	if len(ids) == 0 {
		return map[string]models.AuthorView{}, nil
	}
	users, err := s.users.ListByPublicIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(users, func(u models.User) (string, models.AuthorView) {
		return u.PublicID, toAuthorView(u)
	}), nil
}

func toAuthorView(u models.User) models.AuthorView {
	return models.AuthorView{
		PublicID:       u.PublicID,
		Username:       u.Username,
		FullName:       u.FullName,
		ProfilePicture: u.ProfilePicture,
	}
}

// attachAuthor returns a fresh copy of the author for publicID. A missing
// author is logged and yields nil so hydration can continue.
func attachAuthor(ctx context.Context, authors map[string]models.AuthorView, publicID, kind string, id uint) *models.AuthorView {
	author, ok := authors[publicID]
	if !ok {
		observability.HydrationDegraded.WithLabelValues(observability.ReasonAuthorMissing).Inc()
		zerolog.Ctx(ctx).Warn().
			Str("creator_public_id", publicID).
			Str("kind", kind).
			Uint("id", id).
			Msg("author not found, continuing without author")
		return nil
	}
	return &author
}
