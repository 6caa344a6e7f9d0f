package service

import (
	"context"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFollowService_Follow(t *testing.T) {
	author := &models.User{ID: 7, Username: "author"}

	tests := []struct {
		name         string
		userID       uint
		mockSetup    func(followRepo *MockFollowRepository, userRepo *MockUserRepository)
		expectCreate bool
	}{
		{
			name:   "Creates edge",
			userID: 1,
			mockSetup: func(followRepo *MockFollowRepository, userRepo *MockUserRepository) {
				userRepo.On("GetByUsername", mock.Anything, "author").Return(author, nil)
				followRepo.On("IsFollowing", mock.Anything, uint(1), author.ID).Return(false, nil)
				followRepo.On("Create", mock.Anything, uint(1), author.ID).Return(nil)
			},
			expectCreate: true,
		},
		{
			name:   "Self follow is a no-op",
			userID: author.ID,
			mockSetup: func(followRepo *MockFollowRepository, userRepo *MockUserRepository) {
				userRepo.On("GetByUsername", mock.Anything, "author").Return(author, nil)
			},
		},
		{
			name:   "Existing edge is a no-op",
			userID: 1,
			mockSetup: func(followRepo *MockFollowRepository, userRepo *MockUserRepository) {
				userRepo.On("GetByUsername", mock.Anything, "author").Return(author, nil)
				followRepo.On("IsFollowing", mock.Anything, uint(1), author.ID).Return(true, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			followRepo := new(MockFollowRepository)
			userRepo := new(MockUserRepository)
			tt.mockSetup(followRepo, userRepo)
			svc := NewFollowService(followRepo, userRepo)

			got, err := svc.Follow(context.Background(), tt.userID, "author")
			require.NoError(t, err)
			assert.Equal(t, author.Username, got.Username)
			if tt.expectCreate {
				followRepo.AssertExpectations(t)
			} else {
				followRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestFollowService_FollowUnknownAuthor(t *testing.T) {
	followRepo := new(MockFollowRepository)
	userRepo := new(MockUserRepository)
	svc := NewFollowService(followRepo, userRepo)

	userRepo.On("GetByUsername", mock.Anything, "ghost").
		Return(nil, models.NewNotFoundError("User", "ghost"))

	_, err := svc.Follow(context.Background(), 1, "ghost")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestFollowService_UnfollowIsIdempotent(t *testing.T) {
	author := &models.User{ID: 7, Username: "author"}
	followRepo := new(MockFollowRepository)
	userRepo := new(MockUserRepository)
	svc := NewFollowService(followRepo, userRepo)

	userRepo.On("GetByUsername", mock.Anything, "author").Return(author, nil)
	followRepo.On("Delete", mock.Anything, uint(1), author.ID).Return(nil)

	got, err := svc.Unfollow(context.Background(), 1, "author")
	require.NoError(t, err)
	assert.Equal(t, "author", got.Username)

	// No edge to remove is still success.
	got, err = svc.Unfollow(context.Background(), 1, "author")
	require.NoError(t, err)
	assert.Equal(t, "author", got.Username)
}
