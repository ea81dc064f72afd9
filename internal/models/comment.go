package models

import "time"

// Comment is a response to a post.
type Comment struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	CreatorPublicID string     `gorm:"size:15;not null;index" json:"creator_public_id"`
	PostID          uint       `gorm:"not null;index" json:"post_id"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	Created         time.Time  `gorm:"not null;index" json:"created"`
	Edited          *time.Time `json:"edited"`
}

// Reply is a response to a comment. Replies do not nest further.
type Reply struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	CreatorPublicID string     `gorm:"size:15;not null;index" json:"creator_public_id"`
	CommentID       uint       `gorm:"not null;index" json:"comment_id"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	Created         time.Time  `gorm:"not null" json:"created"`
	Edited          *time.Time `json:"edited"`
}
