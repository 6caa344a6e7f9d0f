package server

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// Follow handles GET /profile/:username/follow. Self-follow and an existing
// edge are silent no-ops; either way the client lands back on the profile.
func (s *Server) Follow(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	author, err := s.followService.Follow(c.Context(), userID, username)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Redirect("/profile/"+url.PathEscape(author.Username), fiber.StatusFound)
}

// Unfollow handles GET /profile/:username/unfollow. Idempotent; answers a
// bare confirmation body rather than redirecting, matching the original's
// asymmetry with Follow.
func (s *Server) Unfollow(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	author, err := s.followService.Unfollow(c.Context(), userID, username)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"author":    author.Username,
		"following": false,
	})
}
