// Package models contains data structures for the feed service's domain models.
package models

import "time"

// PublicIDLength is the fixed length of a user's public identifier.
const PublicIDLength = 15

// User represents a registered member. Only the author fields are read by the feed.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PublicID       string    `gorm:"size:15;uniqueIndex;not null" json:"public_id"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username       string    `gorm:"size:20;uniqueIndex;not null" json:"username"`
	FullName       string    `gorm:"size:100" json:"full_name"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	Bio            string    `gorm:"type:text" json:"bio"`
	ProfilePicture string    `gorm:"size:35" json:"profile_picture"`
	JoinedDate     time.Time `gorm:"not null" json:"joined_date"`
}
