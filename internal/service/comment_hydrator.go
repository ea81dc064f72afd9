package service

import (
	"cmp"
	"context"
	"slices"

	"konishi/internal/models"
	"konishi/internal/repository"

	"github.com/samber/lo"
)

// Preview caps for nested content. Lowest ids win.
const (
	InitialCommentLimit = 5
	InitialReplyLimit   = 2
)

// CommentHydrator builds the bounded comment and reply previews attached to posts.
type CommentHydrator struct {
	comments repository.CommentRepository
	replies  repository.ReplyRepository
	likes    repository.LikeRepository
	authors  *AuthorService
}

func NewCommentHydrator(
	comments repository.CommentRepository,
	replies repository.ReplyRepository,
	likes repository.LikeRepository,
	authors *AuthorService,
) *CommentHydrator {
	return &CommentHydrator{
		comments: comments,
		replies:  replies,
		likes:    likes,
		authors:  authors,
	}
}

// HydrateComments returns the first InitialCommentLimit comments of post by id.
func (h *CommentHydrator) HydrateComments(ctx context.Context, post models.Post, viewerID uint) ([]models.CommentView, error) {
	byPost, err := h.hydrateCommentsFor(ctx, []uint{post.ID}, viewerID)
	if err != nil {
		return nil, err
	}
	return byPost[post.ID], nil
}

// HydrateReplies returns the first InitialReplyLimit replies of comment by id.
func (h *CommentHydrator) HydrateReplies(ctx context.Context, comment models.Comment, viewerID uint) ([]models.ReplyView, error) {
	batch, err := h.loadReplies(ctx, []uint{comment.ID})
	if err != nil {
		return nil, err
	}
	authors, err := h.authors.LoadAuthors(ctx, batch.creatorIDs())
	if err != nil {
		return nil, err
	}
	return batch.views(ctx, comment.ID, authors, viewerID), nil
}

// hydrateCommentsFor builds previews for a page of posts with one query per
// entity kind. Posts without comments are absent from the result.
func (h *CommentHydrator) hydrateCommentsFor(ctx context.Context, postIDs []uint, viewerID uint) (map[uint][]models.CommentView, error) {
	result := make(map[uint][]models.CommentView, len(postIDs))
	postIDs = lo.Uniq(postIDs)
	if len(postIDs) == 0 {
		return result, nil
	}

	rows, err := h.comments.ListPreviewByPostIDs(ctx, postIDs, InitialCommentLimit)
	if err != nil || len(rows) == 0 {
		return result, err
	}
	byPost := previewOf(rows, func(c models.Comment) (uint, uint) { return c.PostID, c.ID }, InitialCommentLimit)
	comments := lo.FlatMap(postIDs, func(id uint, _ int) []models.Comment { return byPost[id] })
	commentIDs := lo.Map(comments, func(c models.Comment, _ int) uint { return c.ID })

	replyCounts, err := h.replies.CountByCommentIDs(ctx, commentIDs)
	if err != nil {
		return nil, err
	}
	withReplies := lo.Filter(commentIDs, func(id uint, _ int) bool { return replyCounts[id] > 0 })

	replies, err := h.loadReplies(ctx, withReplies)
	if err != nil {
		return nil, err
	}

	commentLikes, err := h.likes.ListCommentLikes(ctx, commentIDs)
	if err != nil {
		return nil, err
	}
	likesByComment := lo.GroupBy(commentLikes, func(l models.CommentLike) uint { return l.CommentID })

	creators := lo.Map(comments, func(c models.Comment, _ int) string { return c.CreatorPublicID })
	authors, err := h.authors.LoadAuthors(ctx, append(creators, replies.creatorIDs()...))
	if err != nil {
		return nil, err
	}

	for _, c := range comments {
		view := toCommentView(c)
		view.Author = attachAuthor(ctx, authors, c.CreatorPublicID, "comment", c.ID)
		view.Liked = IsLiked(likesByComment[c.ID], viewerID)
		view.LikeCount = len(likesByComment[c.ID])
		view.ReplyCount = replyCounts[c.ID]
		if view.ReplyCount > 0 {
			view.InitialReplies = replies.views(ctx, c.ID, authors, viewerID)
		}
		result[c.PostID] = append(result[c.PostID], view)
	}

	return result, nil
}

// replyBatch holds reply previews and their likes for a set of comments.
type replyBatch struct {
	byComment map[uint][]models.Reply
	likes     map[uint][]models.ReplyLike
}

func (h *CommentHydrator) loadReplies(ctx context.Context, commentIDs []uint) (replyBatch, error) {
	batch := replyBatch{
		byComment: map[uint][]models.Reply{},
		likes:     map[uint][]models.ReplyLike{},
	}
	if len(commentIDs) == 0 {
		return batch, nil
	}

	replies, err := h.replies.ListPreviewByCommentIDs(ctx, commentIDs, InitialReplyLimit)
	if err != nil {
		return batch, err
	}
	if len(replies) == 0 {
		return batch, nil
	}

	replyLikes, err := h.likes.ListReplyLikes(ctx, lo.Map(replies, func(r models.Reply, _ int) uint { return r.ID }))
	if err != nil {
		return batch, err
	}

	batch.byComment = previewOf(replies, func(r models.Reply) (uint, uint) { return r.CommentID, r.ID }, InitialReplyLimit)
	batch.likes = lo.GroupBy(replyLikes, func(l models.ReplyLike) uint { return l.ReplyID })
	return batch, nil
}

func (b replyBatch) creatorIDs() []string {
	var ids []string
	for _, replies := range b.byComment {
		for _, r := range replies {
			ids = append(ids, r.CreatorPublicID)
		}
	}
	return ids
}

// views returns the hydrated previews of one comment in id order.
func (b replyBatch) views(ctx context.Context, commentID uint, authors map[string]models.AuthorView, viewerID uint) []models.ReplyView {
	replies := b.byComment[commentID]
	views := make([]models.ReplyView, 0, len(replies))
	for _, r := range replies {
		view := toReplyView(r)
		view.Author = attachAuthor(ctx, authors, r.CreatorPublicID, "reply", r.ID)
		view.Liked = IsLiked(b.likes[r.ID], viewerID)
		view.LikeCount = len(b.likes[r.ID])
		views = append(views, view)
	}
	return views
}

// previewOf groups rows by parent, orders each group by id ascending and keeps
// the first limit rows of each group.
func previewOf[T any](rows []T, key func(T) (parent, id uint), limit int) map[uint][]T {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b T) int {
		_, idA := key(a)
		_, idB := key(b)
		return cmp.Compare(idA, idB)
	})

	out := make(map[uint][]T)
	for _, row := range sorted {
		parent, _ := key(row)
		if len(out[parent]) < limit {
			out[parent] = append(out[parent], row)
		}
	}
	return out
}

func toCommentView(c models.Comment) models.CommentView {
	return models.CommentView{
		ID:              c.ID,
		CreatorPublicID: c.CreatorPublicID,
		PostID:          c.PostID,
		Content:         c.Content,
		Created:         c.Created,
		Edited:          c.Edited,
	}
}

func toReplyView(r models.Reply) models.ReplyView {
	return models.ReplyView{
		ID:              r.ID,
		CreatorPublicID: r.CreatorPublicID,
		CommentID:       r.CommentID,
		Content:         r.Content,
		Created:         r.Created,
		Edited:          r.Edited,
	}
}
