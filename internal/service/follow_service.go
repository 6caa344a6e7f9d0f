package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"
)

// FollowService manages follow edges between users and authors.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService creates a new follow service.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow creates a follow edge from the actor to the named author. Following
// yourself or an author you already follow is a silent no-op. Returns the
// author for the redirect target.
func (s *FollowService) Follow(ctx context.Context, userID uint, authorUsername string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return nil, err
	}

	if author.ID == userID {
		return author, nil
	}

	following, err := s.followRepo.IsFollowing(ctx, userID, author.ID)
	if err != nil {
		return nil, err
	}
	if following {
		return author, nil
	}

	if err := s.followRepo.Create(ctx, userID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}

// Unfollow removes all matching edges; removing none is not an error.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, authorUsername string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return nil, err
	}

	if err := s.followRepo.Delete(ctx, userID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}
