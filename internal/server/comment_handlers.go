package server

import (
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /posts/:id/comment. A valid comment redirects to
// the post detail view; an empty one is a 400 rather than the original's
// silent redirect.
func (s *Server) AddComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID: userID,
		PostID: postID,
		Text:   c.FormValue("text"),
	}); err != nil {
		return respondServiceError(c, err)
	}

	return redirectToPost(c, postID)
}
