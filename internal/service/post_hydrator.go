package service

import (
	"context"
	"slices"

	"konishi/internal/models"
	"konishi/internal/observability"
	"konishi/internal/repository"
	"konishi/internal/upload"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
)

// PostHydrator turns post ids into fully hydrated post payloads.
type PostHydrator struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	likes    repository.LikeRepository
	authors  *AuthorService
	nested   *CommentHydrator
	images   upload.ImageResolver
}

func NewPostHydrator(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	likes repository.LikeRepository,
	authors *AuthorService,
	nested *CommentHydrator,
	images upload.ImageResolver,
) *PostHydrator {
	return &PostHydrator{
		posts:    posts,
		comments: comments,
		likes:    likes,
		authors:  authors,
		nested:   nested,
		images:   images,
	}
}

// GetPosts hydrates postIDs in input order. Ids that do not resolve are
// skipped; repeated ids are hydrated once per occurrence.
func (h *PostHydrator) GetPosts(ctx context.Context, postIDs []uint, viewerID uint) (*models.PostsResponse, error) {
	if len(postIDs) == 0 {
		return &models.PostsResponse{
			Success: true,
			Message: models.MessageNothingToSend,
			Posts:   []models.PostView{},
		}, nil
	}

	span, ctx := observability.NewSpan(ctx, "PostHydrator.GetPosts",
		attribute.Int("post_ids.count", len(postIDs)),
		attribute.Int64("viewer_id", int64(viewerID)),
	)
	defer span.End()

	found, err := h.posts.ListByIDs(ctx, lo.Uniq(postIDs))
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	byID := lo.KeyBy(found, func(p models.Post) uint { return p.ID })

	ordered := make([]models.Post, 0, len(postIDs))
	for _, id := range postIDs {
		post, ok := byID[id]
		if !ok {
			observability.HydrationDegraded.WithLabelValues(observability.ReasonPostMissing).Inc()
			zerolog.Ctx(ctx).Warn().Uint("post_id", id).Msg("requested post not found, skipping")
			continue
		}
		ordered = append(ordered, post)
	}

	views, err := h.hydrate(ctx, ordered, viewerID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(
		attribute.Int("posts.hydrated", len(views)),
		attribute.Int("posts.missing", len(postIDs)-len(ordered)),
	)

	return &models.PostsResponse{
		Success: true,
		Message: models.MessagePostsSent,
		Posts:   views,
	}, nil
}

// GetPost hydrates the single post with publicID.
func (h *PostHydrator) GetPost(ctx context.Context, publicID string, viewerID uint) (*models.PostResponse, error) {
	if publicID == "" {
		return nil, models.NewValidationError("Post public id is required")
	}

	post, err := h.posts.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	views, err := h.hydrate(ctx, []models.Post{*post}, viewerID)
	if err != nil {
		return nil, err
	}

	return &models.PostResponse{
		Success: true,
		Message: models.MessagePostSent,
		Post:    views[0],
	}, nil
}

// hydrate attaches author, like status, image url and comment previews to
// posts, loading each entity kind once for the whole page.
func (h *PostHydrator) hydrate(ctx context.Context, posts []models.Post, viewerID uint) ([]models.PostView, error) {
	views := make([]models.PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := lo.Uniq(lo.Map(posts, func(p models.Post, _ int) uint { return p.ID }))

	postLikes, err := h.likes.ListPostLikes(ctx, ids)
	if err != nil {
		return nil, err
	}
	likesByPost := lo.GroupBy(postLikes, func(l models.PostLike) uint { return l.PostID })

	commentCounts, err := h.comments.CountByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	withComments := lo.Filter(ids, func(id uint, _ int) bool { return commentCounts[id] > 0 })
	previews, err := h.nested.hydrateCommentsFor(ctx, withComments, viewerID)
	if err != nil {
		return nil, err
	}

	authors, err := h.authors.LoadAuthors(ctx, lo.Map(posts, func(p models.Post, _ int) string { return p.CreatorPublicID }))
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		view := toPostView(p)
		view.Author = attachAuthor(ctx, authors, p.CreatorPublicID, "post", p.ID)
		view.Liked = IsLiked(likesByPost[p.ID], viewerID)
		view.LikeCount = len(likesByPost[p.ID])
		view.CommentCount = commentCounts[p.ID]
		if p.HasImage() {
			view.ImageURL = h.resolveImage(ctx, p)
		}
		if view.CommentCount > 0 {
			view.InitialComments = slices.Clone(previews[p.ID])
		}
		views = append(views, view)
	}

	observability.PostsHydrated.Add(float64(len(views)))
	return views, nil
}

// resolveImage returns nil when the upload backend cannot resolve the file.
func (h *PostHydrator) resolveImage(ctx context.Context, p models.Post) *string {
	if h.images == nil {
		return nil
	}
	u, err := h.images.GetImage(ctx, p.ImageFile, upload.PostImagesNamespace)
	if err != nil {
		observability.HydrationDegraded.WithLabelValues(observability.ReasonImageUnresolved).Inc()
		zerolog.Ctx(ctx).Warn().Err(err).
			Uint("post_id", p.ID).
			Str("image_file", p.ImageFile).
			Msg("image could not be resolved, continuing without image_url")
		return nil
	}
	return &u
}

func toPostView(p models.Post) models.PostView {
	return models.PostView{
		ID:              p.ID,
		PublicID:        p.PublicID,
		OwnerID:         p.OwnerID,
		CreatorPublicID: p.CreatorPublicID,
		Content:         p.Content,
		ImageFile:       p.ImageFile,
		Status:          p.Status,
		Created:         p.Created,
		Edited:          p.Edited,
	}
}
