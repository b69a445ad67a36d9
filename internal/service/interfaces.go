package service

import (
	"context"
	"io"
	"time"

	"github.com/pageza/cookwithfriends/backend/internal/models"
	"github.com/pageza/cookwithfriends/backend/internal/types"
)

// ITokenService defines the interface for session token operations
type ITokenService interface {
	IssueAccessToken(user *models.User) (string, error)
	IssueRefreshToken(user *models.User) (string, error)
	AccessExpiration() time.Duration
	RefreshExpiration() time.Duration
	ParseToken(token string, typ types.TokenType) (*types.TokenClaims, error)
	Validate(token string, user *models.User) bool
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// IAuthService defines the interface for account operations
type IAuthService interface {
	Signup(ctx context.Context, username, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// IFriendshipService defines the interface for friendship operations.
// The acting user is always passed explicitly.
type IFriendshipService interface {
	Me(ctx context.Context, userID uint) (*types.CurrentUser, error)
	SendFriendRequest(ctx context.Context, senderID, receiverID uint) (*types.FriendRequestResponse, error)
	AcceptFriendRequest(ctx context.Context, acceptorID, senderID uint) error
	Friends(ctx context.Context, userID uint) ([]types.UserResponse, error)
	FriendRequests(ctx context.Context, userID uint) ([]types.UserResponse, error)
	SearchUsers(ctx context.Context, username string) ([]types.UserResponse, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	AddRecipe(ctx context.Context, req *types.AddRecipeRequest) (*types.RecipeResponse, error)
	FindByID(ctx context.Context, id uint) (*types.RecipeResponse, error)
	SearchByTitle(ctx context.Context, title string) ([]types.RecipeSummary, error)
	RandomRecipe(ctx context.Context) (*types.RecipeResponse, error)
	RandomRecipes(ctx context.Context, count int) ([]types.RecipeSummary, error)
	RateRecipe(ctx context.Context, recipeID uint, rating int) (int, error)
}

// IImageService defines the interface for recipe image operations
type IImageService interface {
	StoreImage(ctx context.Context, recipeID uint, originalName string, r io.Reader) error
	LoadImage(ctx context.Context, recipeID uint) (io.ReadCloser, string, error)
}
