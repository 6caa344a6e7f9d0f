// Package service contains the application's domain logic between the HTTP
// handlers and the repositories.
package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"
)

// PageSize is the fixed number of posts per feed page.
const PageSize = 10

// Page is one page of a feed.
type Page struct {
	Items      []*models.Post `json:"items"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	TotalCount int64          `json:"total_count"`
}

// AuthorFeed is a page of an author's posts plus profile context. Following
// is nil for anonymous viewers and omitted from the serialized form.
type AuthorFeed struct {
	Author    *models.User `json:"author"`
	Followers int64        `json:"followers"`
	Follows   int64        `json:"follows"`
	Following *bool        `json:"following,omitempty"`
	Page      *Page        `json:"page_obj"`
}

// FeedService composes paginated post listings.
type FeedService struct {
	postRepo   repository.PostRepository
	groupRepo  repository.GroupRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// NewFeedService creates a new feed service.
func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// Paginate resolves a requested 1-based page number against a total item
// count. A request past the last page clamps to the last valid page; an
// empty listing still has one (empty) page.
func Paginate(totalCount int64, requested int) (page, totalPages, offset int) {
	totalPages = int((totalCount + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	page = requested
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages, (page - 1) * PageSize
}

// Home returns the global feed, newest first.
func (s *FeedService) Home(ctx context.Context, requestedPage int) (*Page, error) {
	count, err := s.postRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	page, totalPages, offset := Paginate(count, requestedPage)
	posts, err := s.postRepo.List(ctx, PageSize, offset)
	if err != nil {
		return nil, err
	}
	return &Page{Items: posts, Page: page, TotalPages: totalPages, TotalCount: count}, nil
}

// Group returns the feed of posts filed under the group with the given slug.
func (s *FeedService) Group(ctx context.Context, slug string, requestedPage int) (*models.Group, *Page, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	count, err := s.postRepo.CountByGroup(ctx, group.ID)
	if err != nil {
		return nil, nil, err
	}
	page, totalPages, offset := Paginate(count, requestedPage)
	posts, err := s.postRepo.ListByGroup(ctx, group.ID, PageSize, offset)
	if err != nil {
		return nil, nil, err
	}
	return group, &Page{Items: posts, Page: page, TotalPages: totalPages, TotalCount: count}, nil
}

// Author returns an author's feed with profile context. viewerID is zero for
// anonymous viewers, in which case follow state is omitted.
func (s *FeedService) Author(ctx context.Context, username string, requestedPage int, viewerID uint) (*AuthorFeed, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	count, err := s.postRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	page, totalPages, offset := Paginate(count, requestedPage)
	posts, err := s.postRepo.ListByAuthor(ctx, author.ID, PageSize, offset)
	if err != nil {
		return nil, err
	}

	followers, err := s.followRepo.CountFollowers(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	follows, err := s.followRepo.CountFollowing(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	feed := &AuthorFeed{
		Author:    author,
		Followers: followers,
		Follows:   follows,
		Page:      &Page{Items: posts, Page: page, TotalPages: totalPages, TotalCount: count},
	}

	if viewerID != 0 {
		following, err := s.followRepo.IsFollowing(ctx, viewerID, author.ID)
		if err != nil {
			return nil, err
		}
		feed.Following = &following
	}

	return feed, nil
}

// Followed returns the viewer's personalized feed: posts by authors they
// follow, never including their own.
func (s *FeedService) Followed(ctx context.Context, viewerID uint, requestedPage int) (*Page, error) {
	count, err := s.postRepo.CountFollowed(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	page, totalPages, offset := Paginate(count, requestedPage)
	posts, err := s.postRepo.ListFollowed(ctx, viewerID, PageSize, offset)
	if err != nil {
		return nil, err
	}
	return &Page{Items: posts, Page: page, TotalPages: totalPages, TotalCount: count}, nil
}
