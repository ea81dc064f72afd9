package models

import "time"

// Response messages returned by the feed endpoints.
const (
	MessageFeedSent      = "Post IDs sent to client."
	MessageNothingToSend = "There is nothing to send."
	MessagePostsSent     = "Post data successfully delivered."
	MessagePostSent      = "Post successfully delivered."
)

// AuthorView is the public projection of a user attached to hydrated content.
type AuthorView struct {
	PublicID       string `json:"public_id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	ProfilePicture string `json:"profile_picture"`
}

// ReplyView is a hydrated reply. Replies carry no nested content.
type ReplyView struct {
	ID              uint        `json:"id"`
	CreatorPublicID string      `json:"creator_public_id"`
	CommentID       uint        `json:"comment_id"`
	Content         string      `json:"content"`
	Created         time.Time   `json:"created"`
	Edited          *time.Time  `json:"edited"`
	Author          *AuthorView `json:"author"`
	Liked           bool        `json:"liked"`
	LikeCount       int         `json:"like_count"`
}

// CommentView is a hydrated comment with an optional reply preview.
type CommentView struct {
	ID              uint        `json:"id"`
	CreatorPublicID string      `json:"creator_public_id"`
	PostID          uint        `json:"post_id"`
	Content         string      `json:"content"`
	Created         time.Time   `json:"created"`
	Edited          *time.Time  `json:"edited"`
	Author          *AuthorView `json:"author"`
	Liked           bool        `json:"liked"`
	LikeCount       int         `json:"like_count"`
	ReplyCount      int         `json:"reply_count"`
	InitialReplies  []ReplyView `json:"initial_replies,omitempty"`
}

// PostView is a hydrated post as delivered to clients.
type PostView struct {
	ID              uint          `json:"id"`
	PublicID        string        `json:"public_id"`
	OwnerID         uint          `json:"owner_id"`
	CreatorPublicID string        `json:"creator_public_id"`
	Content         string        `json:"content"`
	ImageFile       string        `json:"image_file,omitempty"`
	ImageURL        *string       `json:"image_url,omitempty"`
	Status          PostStatus    `json:"status"`
	Created         time.Time     `json:"created"`
	Edited          *time.Time    `json:"edited"`
	Author          *AuthorView   `json:"author"`
	Liked           bool          `json:"liked"`
	LikeCount       int           `json:"like_count"`
	CommentCount    int           `json:"comment_count"`
	InitialComments []CommentView `json:"initial_comments,omitempty"`
}

// FeedResponse carries an ordered, duplicate-free list of post ids.
type FeedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	PostIDs []uint `json:"post_ids"`
}

// PostsResponse carries hydrated posts in request order.
type PostsResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Posts   []PostView `json:"posts"`
}

// PostResponse carries a single hydrated post.
type PostResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Post    PostView `json:"post"`
}
