package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/cookwithfriends/backend/internal/service"
	"github.com/pageza/cookwithfriends/backend/internal/types"
)

var (
	_ service.IRecipeService = (*MockRecipeService)(nil)
	_ service.IImageService  = (*MockImageService)(nil)
)

// MockRecipeService is a mock implementation of the RecipeService interface
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) AddRecipe(ctx context.Context, req *types.AddRecipeRequest) (*types.RecipeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) FindByID(ctx context.Context, id uint) (*types.RecipeResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) SearchByTitle(ctx context.Context, title string) ([]types.RecipeSummary, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecipeSummary), args.Error(1)
}

func (m *MockRecipeService) RandomRecipe(ctx context.Context) (*types.RecipeResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) RandomRecipes(ctx context.Context, count int) ([]types.RecipeSummary, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecipeSummary), args.Error(1)
}

func (m *MockRecipeService) RateRecipe(ctx context.Context, recipeID uint, rating int) (int, error) {
	args := m.Called(ctx, recipeID, rating)
	return args.Int(0), args.Error(1)
}

// MockImageService is a mock implementation of the ImageService interface
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) StoreImage(ctx context.Context, recipeID uint, originalName string, r io.Reader) error {
	args := m.Called(ctx, recipeID, originalName, r)
	return args.Error(0)
}

func (m *MockImageService) LoadImage(ctx context.Context, recipeID uint) (io.ReadCloser, string, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}
