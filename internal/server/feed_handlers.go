package server

import (
	"konishi/internal/middleware"
	"konishi/internal/service"

	"github.com/gofiber/fiber/v2"
)

// getPostsRequest bounds one hydration batch at 200 ids. A missing or null
// list is the same as an empty one.
type getPostsRequest struct {
	PostIDs []uint `json:"post_ids" validate:"omitempty,max=200,dive,gt=0"`
}

// GetFeed handles GET /api/feed?strategy=activity|chronological
func (s *Server) GetFeed(c *fiber.Ctx) error {
	resp, err := s.feedService.GetFeed(c.UserContext(), service.GetFeedInput{
		Strategy: c.Query("strategy"),
		ViewerID: middleware.ViewerID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// GetFeedPosts handles POST /api/feed/posts
func (s *Server) GetFeedPosts(c *fiber.Ctx) error {
	var req getPostsRequest
	if err := s.parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := s.postHydrator.GetPosts(c.UserContext(), req.PostIDs, middleware.ViewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// GetPost handles GET /api/posts/:public_id
func (s *Server) GetPost(c *fiber.Ctx) error {
	resp, err := s.postHydrator.GetPost(c.UserContext(), c.Params("public_id"), middleware.ViewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
