package testhelpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/cookwithfriends/backend/internal/models"
)

// DefaultPassword is the clear text password of users made by CreateTestUser.
const DefaultPassword = "password123"

// CreateTestUser inserts a user whose password is DefaultPassword.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestRecipe inserts a bare recipe with the given title.
func CreateTestRecipe(t *testing.T, db *gorm.DB, title string) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{Title: title, Description: title + " description", CookingTime: 20}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return recipe
}
