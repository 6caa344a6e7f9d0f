package server

import (
	"encoding/json"

	"quill/internal/middleware"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// HomeFeed handles GET /. The default page is served from the single-slot
// page cache; requests naming an explicit page bypass it. The cached body is
// identical for every viewer because the home feed carries no viewer state.
func (s *Server) HomeFeed(c *fiber.Ctx) error {
	page := parsePage(c)

	cacheable := page == 0
	if cacheable {
		if body, ok := s.homeCache.Get(c.Context()); ok {
			return c.Type("json").Send(body)
		}
	} else {
		middleware.CacheRequests.WithLabelValues("bypass").Inc()
	}

	feed, err := s.feedService.Home(c.Context(), page)
	if err != nil {
		return respondServiceError(c, err)
	}

	body, err := json.Marshal(fiber.Map{"page_obj": feed})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if cacheable {
		s.homeCache.Put(c.Context(), body)
	}
	return c.Type("json").Send(body)
}

// GroupFeed handles GET /group/:slug
func (s *Server) GroupFeed(c *fiber.Ctx) error {
	slug := c.Params("slug")

	group, feed, err := s.feedService.Group(c.Context(), slug, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"group":    group,
		"page_obj": feed,
	})
}

// AuthorFeed handles GET /profile/:username. Follow state is included only
// when the viewer is authenticated.
func (s *Server) AuthorFeed(c *fiber.Ctx) error {
	username := c.Params("username")
	viewerID, _ := s.optionalUserID(c)

	feed, err := s.feedService.Author(c.Context(), username, parsePage(c), viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(feed)
}

// FollowFeed handles GET /follow: posts by authors the viewer follows.
func (s *Server) FollowFeed(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)

	feed, err := s.feedService.Followed(c.Context(), viewerID, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"page_obj": feed})
}
