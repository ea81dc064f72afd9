package models

import "time"

// Liker is implemented by every like record so like-status checks can run over
// post, comment and reply likes alike.
type Liker interface {
	LikerID() uint
}

// PostLike records a user's like on a post.
// The combination of PostID and OwnerID must be unique.
type PostLike struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	PostID  uint      `gorm:"not null;uniqueIndex:idx_post_like_owner" json:"post_id"`
	OwnerID uint      `gorm:"not null;uniqueIndex:idx_post_like_owner" json:"owner_id"`
	LikedOn time.Time `gorm:"not null" json:"liked_on"`
}

// LikerID returns the id of the user who liked the post.
func (l PostLike) LikerID() uint { return l.OwnerID }

// CommentLike records a user's like on a comment.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_like_owner" json:"comment_id"`
	OwnerID   uint      `gorm:"not null;uniqueIndex:idx_comment_like_owner" json:"owner_id"`
	LikedOn   time.Time `gorm:"not null" json:"liked_on"`
}

// LikerID returns the id of the user who liked the comment.
func (l CommentLike) LikerID() uint { return l.OwnerID }

// ReplyLike records a user's like on a reply.
type ReplyLike struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	ReplyID uint      `gorm:"not null;uniqueIndex:idx_reply_like_owner" json:"reply_id"`
	OwnerID uint      `gorm:"not null;uniqueIndex:idx_reply_like_owner" json:"owner_id"`
	LikedOn time.Time `gorm:"not null" json:"liked_on"`
}

// LikerID returns the id of the user who liked the reply.
func (l ReplyLike) LikerID() uint { return l.OwnerID }
