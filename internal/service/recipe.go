package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/cookwithfriends/backend/internal/models"
	"github.com/pageza/cookwithfriends/backend/internal/types"
)

const (
	MinRating = 0
	MaxRating = 10
)

type RecipeService struct {
	db *gorm.DB
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// AddRecipe stores a new recipe, creating unknown ingredients on the way.
func (s *RecipeService) AddRecipe(ctx context.Context, req *types.AddRecipeRequest) (*types.RecipeResponse, error) {
	instructions := make([]models.Instruction, 0, len(req.Instructions))
	for i, in := range req.Instructions {
		step := in.StepNumber
		if step == 0 {
			step = i + 1
		}
		instructions = append(instructions, models.Instruction{StepNumber: step, Instruction: in.Instruction})
	}
	sort.SliceStable(instructions, func(i, j int) bool {
		return instructions[i].StepNumber < instructions[j].StepNumber
	})

	recipe := models.Recipe{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Instructions:    instructions,
		CookingTime:     req.CookingTime,
		PreparationTime: req.PreparationTime,
		Servings:        req.Servings,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Ingredients").Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}

		for _, p := range req.RecipeIngredients {
			ingredient, err := findOrCreateIngredient(tx, p.Name, p.Unit)
			if err != nil {
				return err
			}
			ri := models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: ingredient.ID,
				Unit:         p.Unit,
				Amount:       p.Amount,
			}
			if err := tx.Omit(clause.Associations).Create(&ri).Error; err != nil {
				return fmt.Errorf("failed to add ingredient %s: %w", ingredient.Name, err)
			}
			ri.Ingredient = *ingredient
			recipe.Ingredients = append(recipe.Ingredients, ri)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRecipeResponse(&recipe)
}

func findOrCreateIngredient(tx *gorm.DB, name, unit string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := tx.Where(models.Ingredient{Name: strings.TrimSpace(name)}).
		Attrs(models.Ingredient{StandardUnit: unit}).
		FirstOrCreate(&ingredient).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ingredient %s: %w", name, err)
	}
	return &ingredient, nil
}

func (s *RecipeService) FindByID(ctx context.Context, id uint) (*types.RecipeResponse, error) {
	recipe, err := s.load(s.db.WithContext(ctx).Where("id = ?", id))
	if err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe)
}

// SearchByTitle matches title case-insensitively as a substring.
func (s *RecipeService) SearchByTitle(ctx context.Context, title string) ([]types.RecipeSummary, error) {
	var recipes []models.Recipe
	pattern := "%" + escapeLike(strings.ToLower(title)) + "%"
	err := s.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? ESCAPE '\\'", pattern).
		Order("title").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return types.NewRecipeSummaries(recipes), nil
}

func (s *RecipeService) RandomRecipe(ctx context.Context) (*types.RecipeResponse, error) {
	recipe, err := s.load(s.db.WithContext(ctx).Order("RANDOM()"))
	if err != nil {
		if errors.Is(err, ErrRecipeNotFound) {
			return nil, withMessage(ErrRecipeNotFound, "No Recipe found")
		}
		return nil, err
	}
	return toRecipeResponse(recipe)
}

// RandomRecipes returns up to count distinct recipes in random order.
func (s *RecipeService) RandomRecipes(ctx context.Context, count int) ([]types.RecipeSummary, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Order("RANDOM()").Limit(count).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	if len(recipes) == 0 {
		return nil, withMessage(ErrRecipeNotFound, "No Recipes found")
	}
	return types.NewRecipeSummaries(recipes), nil
}

// RateRecipe folds rating into the recipe's average. Ratings outside
// [MinRating, MaxRating] are ignored and the current rating is returned.
func (s *RecipeService) RateRecipe(ctx context.Context, recipeID uint, rating int) (int, error) {
	var result int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var recipe models.Recipe
		if err := q.First(&recipe, recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}

		if rating < MinRating || rating > MaxRating {
			result = recipe.Rating
			return nil
		}

		result = recipe.ApplyRating(rating)
		return tx.Model(&recipe).
			Select("sum_rating", "count_rating", "rating").
			Updates(&recipe).Error
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

func (s *RecipeService) load(q *gorm.DB) (*models.Recipe, error) {
	var recipe models.Recipe
	err := q.
		Preload("Instructions", func(db *gorm.DB) *gorm.DB { return db.Order("step_number") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Ingredients.Ingredient").
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func toRecipeResponse(r *models.Recipe) (*types.RecipeResponse, error) {
	resp := &types.RecipeResponse{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Instructions:    make([]types.InstructionPayload, 0, len(r.Instructions)),
		Ingredients:     make([]types.RecipeIngredientPayload, 0, len(r.Ingredients)),
		CookingTime:     r.CookingTime,
		PreparationTime: r.PreparationTime,
		Servings:        r.Servings,
		Rating:          r.Rating,
	}
	for _, in := range r.Instructions {
		resp.Instructions = append(resp.Instructions, types.InstructionPayload{
			StepNumber:  in.StepNumber,
			Instruction: in.Instruction,
		})
	}
	for _, ri := range r.Ingredients {
		if ri.Ingredient.ID == 0 {
			return nil, fmt.Errorf("%w: id %d", ErrIngredientNotFound, ri.IngredientID)
		}
		resp.Ingredients = append(resp.Ingredients, types.RecipeIngredientPayload{
			Name:   ri.Ingredient.Name,
			Unit:   ri.Unit,
			Amount: ri.Amount,
		})
	}
	return resp, nil
}
