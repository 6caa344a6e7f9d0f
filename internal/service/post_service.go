package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"
)

const maxPostLen = 20000

// PostService handles post creation and editing.
type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
}

// CreatePostInput carries the fields of the post form.
type CreatePostInput struct {
	UserID    uint
	Text      string
	GroupID   *uint
	ImagePath string
}

// UpdatePostInput carries an edit of an existing post. The form replaces
// text and group wholesale; an empty ImagePath keeps the current attachment.
type UpdatePostInput struct {
	EditorID  uint
	PostID    uint
	Text      string
	GroupID   *uint
	ImagePath string
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository) *PostService {
	return &PostService{postRepo: postRepo, groupRepo: groupRepo}
}

func (s *PostService) validate(ctx context.Context, text string, groupID *uint) error {
	if text == "" {
		return models.NewValidationError("Post text is required")
	}
	if len(text) > maxPostLen {
		return models.NewValidationError("Post too long (max 20000 characters)")
	}
	if groupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
			return models.NewValidationError("Unknown group")
		}
	}
	return nil
}

// CreatePost validates and persists a new post owned by the actor.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := s.validate(ctx, in.Text, in.GroupID); err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:      in.Text,
		UserID:    in.UserID,
		GroupID:   in.GroupID,
		ImagePath: in.ImagePath,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost edits a post in place. Only the author may edit; anyone else
// gets an UNAUTHORIZED error and no mutation happens.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if post.UserID != in.EditorID {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}
	if err := s.validate(ctx, in.Text, in.GroupID); err != nil {
		return nil, err
	}

	post.Text = in.Text
	post.GroupID = in.GroupID
	post.Group = nil
	if in.ImagePath != "" {
		post.ImagePath = in.ImagePath
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns a post for the detail view.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}
