package types

// RegisterRequest represents the request body for signup
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AddRecipeRequest represents the request body for creating a recipe
type AddRecipeRequest struct {
	Title             string                    `json:"title" binding:"required,max=255"`
	Description       string                    `json:"description" binding:"max=1000"`
	Instructions      []InstructionPayload      `json:"instructions" binding:"dive"`
	RecipeIngredients []RecipeIngredientPayload `json:"recipeIngredients" binding:"dive"`
	CookingTime       int                       `json:"cookingTime" binding:"gte=0"`
	PreparationTime   int                       `json:"preparationTime" binding:"gte=0"`
	Servings          int                       `json:"servings" binding:"gte=0"`
}

type InstructionPayload struct {
	StepNumber  int    `json:"stepNumber"`
	Instruction string `json:"instruction" binding:"required,max=1000"`
}

type RecipeIngredientPayload struct {
	Name   string  `json:"name" binding:"required"`
	Unit   string  `json:"unit"`
	Amount float32 `json:"amount"`
}

// RateRecipeRequest is the body of POST /recipe/rate. Out-of-range ratings are ignored, not rejected.
type RateRecipeRequest struct {
	RecipeID uint `json:"recipeId" binding:"required"`
	Rating   int  `json:"rating"`
}
