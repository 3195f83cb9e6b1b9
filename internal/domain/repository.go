package domain

import (
	"context"
	"time"
)

// FoodStore defines the persistence operations over foods, pantry, recipes,
// and diary entries. Rows are append-only: nothing is updated or deleted.
type FoodStore interface {
	EnsureSchema(ctx context.Context) error

	InsertFood(ctx context.Context, food Food) (FoodID, error)
	ListFoods(ctx context.Context) ([]Food, error)
	FindFoodID(ctx context.Context, name string) (FoodID, error)

	InsertPantryItem(ctx context.Context, foodID FoodID, weightGrams float64) (PantryItemID, error)
	ListPantryItems(ctx context.Context) ([]PantryItem, error)

	InsertRecipe(ctx context.Context, name string) (RecipeID, error)
	FindRecipeID(ctx context.Context, name string) (RecipeID, error)
	AddRecipeIngredient(ctx context.Context, recipeID RecipeID, foodID FoodID, weightGrams float64) error
	ListRecipeIngredients(ctx context.Context, recipeID RecipeID) ([]Ingredient, error)

	InsertEntry(ctx context.Context, timestamp time.Time) (EntryID, error)
	AddEntryFood(ctx context.Context, entryID EntryID, foodID FoodID, weightGrams float64) error
	ListEntryFoods(ctx context.Context, entryID EntryID) ([]Ingredient, error)
}

// NutrientSource defines the external food database lookup
type NutrientSource interface {
	SearchFoods(ctx context.Context, query string) (*ExternalSearchResponse, error)
}
