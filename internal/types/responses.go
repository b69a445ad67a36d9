package types

import (
	"github.com/pageza/cookwithfriends/backend/internal/models"
)

// CurrentUser is the authenticated user's own view
type CurrentUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserResponse is the public view of another user
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type FriendRequestResponse struct {
	ID       uint         `json:"id"`
	Sender   UserResponse `json:"sender"`
	Receiver UserResponse `json:"receiver"`
}

// RecipeResponse is the full recipe view
type RecipeResponse struct {
	ID              uint                      `json:"id"`
	Title           string                    `json:"title"`
	Description     string                    `json:"description"`
	Instructions    []InstructionPayload      `json:"instructions"`
	Ingredients     []RecipeIngredientPayload `json:"ingredients"`
	CookingTime     int                       `json:"cookingTime"`
	PreparationTime int                       `json:"preparationTime"`
	Servings        int                       `json:"servings"`
	Rating          int                       `json:"rating"`
}

// RecipeSummary is the list view used by search and random stacks
type RecipeSummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CookingTime int    `json:"cookingTime"`
	Rating      int    `json:"rating"`
}

func NewCurrentUser(u *models.User) CurrentUser {
	return CurrentUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username}
}

func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

func NewRecipeSummaries(recipes []models.Recipe) []RecipeSummary {
	out := make([]RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, RecipeSummary{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			CookingTime: r.CookingTime,
			Rating:      r.Rating,
		})
	}
	return out
}
