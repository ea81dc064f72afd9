// Package service holds the feed assembly and hydration logic.
package service

import "konishi/internal/models"

// IsLiked reports whether viewerID appears among the likers. The anonymous
// viewer (id 0) never has a like.
func IsLiked[L models.Liker](likes []L, viewerID uint) bool {
	if viewerID == 0 {
		return false
	}
	for _, like := range likes {
		if like.LikerID() == viewerID {
			return true
		}
	}
	return false
}
