package models

import "time"

// PostStatus marks the publication state of a post.
type PostStatus string

const (
	PostStatusPublished PostStatus = "published"
	PostStatusDraft     PostStatus = "draft"
)

// Post represents a user-authored post. Relationships are loaded through explicit
// repository queries, never through associations.
type Post struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	PublicID        string     `gorm:"size:15;uniqueIndex;not null" json:"public_id"`
	OwnerID         uint       `gorm:"not null;index" json:"owner_id"`
	CreatorPublicID string     `gorm:"size:15;not null;index" json:"creator_public_id"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	ImageFile       string     `gorm:"size:35" json:"image_file"`
	Status          PostStatus `gorm:"size:10;not null;default:published" json:"status"`
	Created         time.Time  `gorm:"not null;index" json:"created"`
	Edited          *time.Time `json:"edited"`
}

// HasImage reports whether the post references an uploaded image.
func (p Post) HasImage() bool {
	return p.ImageFile != ""
}
