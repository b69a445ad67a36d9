package models

import (
	"time"

	"gorm.io/gorm"
)

// FriendRequest is a pending, directed proposal. It is deleted once accepted.
type FriendRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;uniqueIndex:idx_friend_request_pair" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;uniqueIndex:idx_friend_request_pair;index" json:"receiver_id"`
	Sender     User      `gorm:"foreignKey:SenderID" json:"-"`
	Receiver   User      `gorm:"foreignKey:ReceiverID" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friendship is an undirected edge stored once, keyed by (low id, high id).
type Friendship struct {
	UserLowID  uint      `gorm:"primaryKey;autoIncrement:false" json:"user_low_id"`
	UserHighID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"user_high_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// NewFriendship builds the edge between a and b regardless of argument order.
func NewFriendship(a, b uint) Friendship {
	low, high := OrderedPair(a, b)
	return Friendship{UserLowID: low, UserHighID: high}
}

// OrderedPair returns (min, max).
func OrderedPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// BeforeCreate keeps UserLowID < UserHighID so each pair has a single row.
func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	f.UserLowID, f.UserHighID = OrderedPair(f.UserLowID, f.UserHighID)
	return nil
}
