package server

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postForm holds the parsed post form fields (text, group, image).
type postForm struct {
	Text      string
	GroupID   *uint
	ImagePath string
}

// parsePostForm reads the multipart/urlencoded post form. An uploaded image
// is written through the attachment store and replaced by its opaque path.
func (s *Server) parsePostForm(c *fiber.Ctx) (*postForm, error) {
	form := &postForm{Text: c.FormValue("text")}

	if groupStr := c.FormValue("group"); groupStr != "" {
		gid, err := strconv.ParseUint(groupStr, 10, 32)
		if err != nil {
			return nil, models.NewValidationError("Invalid group")
		}
		id := uint(gid)
		form.GroupID = &id
	}

	fh, err := c.FormFile("image")
	if err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		defer f.Close()
		path, err := s.store.Save(fh.Filename, f)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		form.ImagePath = path
	}

	return form, nil
}

// redirectToPost sends the client to a post's detail view.
func redirectToPost(c *fiber.Ctx, postID uint) error {
	return c.Redirect(fmt.Sprintf("/posts/%d", postID), fiber.StatusFound)
}

// PostDetail handles GET /posts/:id
func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	comments, err := s.commentService.ListComments(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":     post,
		"comments": comments,
	})
}

// listGroups returns the form's group choices. Groups change rarely, so the
// listing is served cache-aside with a short TTL.
func (s *Server) listGroups(ctx context.Context) ([]*models.Group, error) {
	var groups []*models.Group
	err := cache.Aside(ctx, "groups:all", &groups, time.Minute, func() error {
		var ferr error
		groups, ferr = s.groupRepo.List(ctx)
		return ferr
	})
	return groups, err
}

// CreatePostForm handles GET /create: the blank form context (group choices).
func (s *Server) CreatePostForm(c *fiber.Ctx) error {
	groups, err := s.listGroups(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"groups": groups})
}

// CreatePost handles POST /create. On success the client is redirected to
// the actor's own profile feed, as the original flow does.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Locals("username").(string)

	form, err := s.parsePostForm(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	if _, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:    userID,
		Text:      form.Text,
		GroupID:   form.GroupID,
		ImagePath: form.ImagePath,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.Redirect("/profile/"+url.PathEscape(username), fiber.StatusFound)
}

// EditPostForm handles GET /posts/:id/edit. Non-authors are bounced to the
// post detail view instead of seeing the form.
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if post.UserID != userID {
		return redirectToPost(c, postID)
	}

	groups, err := s.listGroups(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"post":    post,
		"groups":  groups,
		"is_edit": true,
	})
}

// EditPost handles POST /posts/:id/edit. A non-author is silently redirected
// to the detail view with no mutation (redirect-as-denial); the author's
// valid edit saves in place and redirects to the detail view.
func (s *Server) EditPost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	form, err := s.parsePostForm(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	_, err = s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		EditorID:  userID,
		PostID:    postID,
		Text:      form.Text,
		GroupID:   form.GroupID,
		ImagePath: form.ImagePath,
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "UNAUTHORIZED" {
			return redirectToPost(c, postID)
		}
		return respondServiceError(c, err)
	}

	return redirectToPost(c, postID)
}

// ServeMedia handles GET /media/:name, streaming a stored attachment.
func (s *Server) ServeMedia(c *fiber.Ctx) error {
	name := c.Params("name")
	path, err := s.store.Path(name)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Attachment", name))
	}
	if _, err := os.Stat(path); err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Attachment", name))
	}
	return c.SendFile(path)
}
