package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/cookwithfriends/backend/internal/models"
)

type AuthService struct {
	db *gorm.DB
}

var _ IAuthService = (*AuthService)(nil)

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Signup creates a user. Username is checked before email.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	db := s.db.WithContext(ctx)

	taken, err := exists(db, &models.User{}, "username = ?", username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, usernameTaken(username)
	}

	taken, err = exists(db, &models.User{}, "email = ?", email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, emailTaken()
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent signup; report the same way the checks would.
			if taken, _ := exists(db, &models.User{}, "username = ?", username); taken {
				return nil, usernameTaken(username)
			}
			return nil, emailTaken()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Authenticate returns the user owning email if password matches.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := CheckCredentials(user.PasswordHash, password); err != nil {
		return nil, err
	}
	return user, nil
}

// CheckCredentials compares a stored bcrypt hash with a clear text password.
func CheckCredentials(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *AuthService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func usernameTaken(username string) error {
	return withMessage(ErrUsernameTaken, "Username %s is already taken", strings.TrimSpace(username))
}

func emailTaken() error {
	return withMessage(ErrEmailTaken, "Email is already in use")
}

func exists(db *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
