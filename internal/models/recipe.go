package models

import (
	"time"
)

// Recipe carries a running rating sum and count; Rating is sum/count truncated.
type Recipe struct {
	ID              uint               `gorm:"primaryKey" json:"id"`
	Title           string             `gorm:"size:255;not null;index" json:"title"`
	Description     string             `gorm:"size:1000" json:"description"`
	Instructions    []Instruction      `gorm:"constraint:OnDelete:CASCADE" json:"instructions"`
	Ingredients     []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
	CookingTime     int                `json:"cooking_time"`
	PreparationTime int                `json:"preparation_time"`
	Servings        int                `json:"servings"`
	Rating          int                `gorm:"not null;default:0" json:"rating"`
	CountRating     int                `gorm:"not null;default:0" json:"count_rating"`
	SumRating       int                `gorm:"not null;default:0" json:"sum_rating"`
	ImageFilename   string             `gorm:"size:255" json:"image_filename"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// ApplyRating folds a rating into the running totals and returns the new average.
func (r *Recipe) ApplyRating(rating int) int {
	r.SumRating += rating
	r.CountRating++
	r.Rating = r.SumRating / r.CountRating
	return r.Rating
}

type Instruction struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	RecipeID    uint   `gorm:"not null;index" json:"recipe_id"`
	StepNumber  int    `gorm:"not null" json:"step_number"`
	Instruction string `gorm:"size:1000;not null" json:"instruction"`
}

func (Instruction) TableName() string {
	return "instructions"
}

// Ingredient is shared across recipes; StandardUnit is the unit it was first seen with.
type Ingredient struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	StandardUnit string `gorm:"size:50" json:"standard_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RecipeID     uint       `gorm:"not null;index" json:"recipe_id"`
	IngredientID uint       `gorm:"not null;index" json:"ingredient_id"`
	Ingredient   Ingredient `json:"ingredient"`
	Unit         string     `gorm:"size:50" json:"unit"`
	Amount       float32    `json:"amount"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// All lists every model for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&FriendRequest{},
		&Friendship{},
		&Ingredient{},
		&Recipe{},
		&Instruction{},
		&RecipeIngredient{},
	}
}
