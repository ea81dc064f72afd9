package server

import (
	"konishi/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags returns the flags evaluated for the current viewer along
// with the feed strategy they select when none is requested.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	viewerID := middleware.ViewerID(c)

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "Feature flags evaluated.",
		"evaluated":     s.featureFlags.Snapshot(viewerID),
		"feed_strategy": s.feedService.DefaultStrategy(viewerID),
	})
}
