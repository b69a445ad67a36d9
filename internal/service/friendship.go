package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/cookwithfriends/backend/internal/models"
	"github.com/pageza/cookwithfriends/backend/internal/types"
)

// FriendshipService manages friend requests and the undirected friendship edges.
type FriendshipService struct {
	db *gorm.DB
}

var _ IFriendshipService = (*FriendshipService)(nil)

// NewFriendshipService creates a new FriendshipService instance
func NewFriendshipService(db *gorm.DB) *FriendshipService {
	return &FriendshipService{db: db}
}

func (s *FriendshipService) Me(ctx context.Context, userID uint) (*types.CurrentUser, error) {
	user, err := s.findUser(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	me := types.NewCurrentUser(user)
	return &me, nil
}

// SendFriendRequest records a pending request from sender to receiver.
func (s *FriendshipService) SendFriendRequest(ctx context.Context, senderID, receiverID uint) (*types.FriendRequestResponse, error) {
	var resp *types.FriendRequestResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sender, err := s.findUser(tx, senderID)
		if err != nil {
			return err
		}
		if sender == nil {
			return withMessage(ErrUserNotFound, "Sender not found")
		}
		receiver, err := s.findUser(tx, receiverID)
		if err != nil {
			return err
		}
		if receiver == nil {
			return withMessage(ErrUserNotFound, "Receiver not found")
		}

		if senderID == receiverID {
			return ErrSelfRequest
		}

		friends, err := areFriends(tx, senderID, receiverID)
		if err != nil {
			return err
		}
		if friends {
			return ErrAlreadyFriends
		}

		pending, err := exists(tx, &models.FriendRequest{},
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			senderID, receiverID, receiverID, senderID)
		if err != nil {
			return err
		}
		if pending {
			return ErrDuplicateRequest
		}

		req := models.FriendRequest{SenderID: senderID, ReceiverID: receiverID}
		if err := tx.Omit(clause.Associations).Create(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateRequest
			}
			return fmt.Errorf("failed to create friend request: %w", err)
		}

		resp = &types.FriendRequestResponse{
			ID:       req.ID,
			Sender:   types.NewUserResponse(sender),
			Receiver: types.NewUserResponse(receiver),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// AcceptFriendRequest turns the pending sender->acceptor request into a friendship.
func (s *FriendshipService) AcceptFriendRequest(ctx context.Context, acceptorID, senderID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sender, err := s.findUser(tx, senderID)
		if err != nil {
			return err
		}
		if sender == nil {
			return ErrFriendUserNotFound
		}

		var req models.FriendRequest
		err = tx.Where("sender_id = ? AND receiver_id = ?", senderID, acceptorID).First(&req).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		if err != nil {
			return err
		}

		edge := models.NewFriendship(senderID, acceptorID)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
			return fmt.Errorf("failed to create friendship: %w", err)
		}
		if err := tx.Delete(&req).Error; err != nil {
			return fmt.Errorf("failed to delete friend request: %w", err)
		}
		return nil
	})
}

// Friends lists every user sharing an edge with userID, each once.
func (s *FriendshipService) Friends(ctx context.Context, userID uint) ([]types.UserResponse, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("id IN (?) OR id IN (?)",
			s.db.Model(&models.Friendship{}).Select("user_high_id").Where("user_low_id = ?", userID),
			s.db.Model(&models.Friendship{}).Select("user_low_id").Where("user_high_id = ?", userID)).
		Order("username").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return types.NewUserResponses(users), nil
}

// FriendRequests lists the distinct senders of pending requests to userID.
func (s *FriendshipService) FriendRequests(ctx context.Context, userID uint) ([]types.UserResponse, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("id IN (?)", s.db.Model(&models.FriendRequest{}).Select("sender_id").Where("receiver_id = ?", userID)).
		Order("username").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	return types.NewUserResponses(users), nil
}

// SearchUsers matches username case-insensitively as a substring.
func (s *FriendshipService) SearchUsers(ctx context.Context, username string) ([]types.UserResponse, error) {
	var users []models.User
	pattern := "%" + escapeLike(strings.ToLower(username)) + "%"
	err := s.db.WithContext(ctx).
		Where("LOWER(username) LIKE ? ESCAPE '\\'", pattern).
		Order("username").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return types.NewUserResponses(users), nil
}

func (s *FriendshipService) findUser(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	err := db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func areFriends(db *gorm.DB, a, b uint) (bool, error) {
	low, high := models.OrderedPair(a, b)
	return exists(db, &models.Friendship{}, "user_low_id = ? AND user_high_id = ?", low, high)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
