package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/cookwithfriends/backend/internal/service"
	"github.com/pageza/cookwithfriends/backend/internal/types"
)

var _ service.IFriendshipService = (*MockFriendshipService)(nil)

// MockFriendshipService is a mock implementation of the FriendshipService interface
type MockFriendshipService struct {
	mock.Mock
}

func (m *MockFriendshipService) Me(ctx context.Context, userID uint) (*types.CurrentUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.CurrentUser), args.Error(1)
}

func (m *MockFriendshipService) SendFriendRequest(ctx context.Context, senderID, receiverID uint) (*types.FriendRequestResponse, error) {
	args := m.Called(ctx, senderID, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FriendRequestResponse), args.Error(1)
}

func (m *MockFriendshipService) AcceptFriendRequest(ctx context.Context, acceptorID, senderID uint) error {
	args := m.Called(ctx, acceptorID, senderID)
	return args.Error(0)
}

func (m *MockFriendshipService) Friends(ctx context.Context, userID uint) ([]types.UserResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.UserResponse), args.Error(1)
}

func (m *MockFriendshipService) FriendRequests(ctx context.Context, userID uint) ([]types.UserResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.UserResponse), args.Error(1)
}

func (m *MockFriendshipService) SearchUsers(ctx context.Context, username string) ([]types.UserResponse, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.UserResponse), args.Error(1)
}
