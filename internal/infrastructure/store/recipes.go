package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nutrilog/backend/internal/domain"
	"go.uber.org/zap"
)

var (
	selectRecipeIngredientsSQL = fmt.Sprintf(`
		SELECT ri.food_id, ri.weight_grams, %s
		FROM recipe_ingredients ri
		JOIN food_items f ON f.id = ri.food_id
		WHERE ri.recipe_id = ?
		ORDER BY ri.id`, qualifiedFoodColumns("f"))

	selectEntryFoodsSQL = fmt.Sprintf(`
		SELECT ef.food_id, ef.weight_grams, %s
		FROM entry_foods ef
		JOIN food_items f ON f.id = ef.food_id
		WHERE ef.entry_id = ?
		ORDER BY ef.id`, qualifiedFoodColumns("f"))
)

// InsertRecipe creates an empty recipe.
func (s *Store) InsertRecipe(ctx context.Context, name string) (domain.RecipeID, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO recipes (name) VALUES (?)", name)
	if err != nil {
		return 0, classify(err, domain.ErrDuplicateName)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	s.logger.Debug("Inserted recipe", zap.String("name", name), zap.Int64("id", id))
	return domain.RecipeID(id), nil
}

// FindRecipeID looks a recipe up by exact name.
func (s *Store) FindRecipeID(ctx context.Context, name string) (domain.RecipeID, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM recipes WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: recipe %q", domain.ErrNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return domain.RecipeID(id), nil
}

// AddRecipeIngredient appends a food to a recipe. Each food may appear once
// per recipe.
func (s *Store) AddRecipeIngredient(ctx context.Context, recipeID domain.RecipeID, foodID domain.FoodID, weightGrams float64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO recipe_ingredients (recipe_id, food_id, weight_grams) VALUES (?, ?, ?)",
		int64(recipeID), int64(foodID), weightGrams,
	)
	if err != nil {
		return classify(err, domain.ErrDuplicateIngredient)
	}

	s.logger.Debug("Added recipe ingredient",
		zap.Int64("recipe_id", int64(recipeID)),
		zap.Int64("food_id", int64(foodID)),
		zap.Float64("weight_grams", weightGrams))
	return nil
}

// ListRecipeIngredients returns a recipe's ingredients in insertion order.
// An unknown recipe is domain.ErrNotFound.
func (s *Store) ListRecipeIngredients(ctx context.Context, recipeID domain.RecipeID) ([]domain.Ingredient, error) {
	if err := s.requireRow(ctx, "recipes", int64(recipeID)); err != nil {
		return nil, err
	}
	return s.listIngredients(ctx, selectRecipeIngredientsSQL, int64(recipeID))
}

// requireRow checks that table holds a row with the given id. table is
// always one of the package's own table names.
func (s *Store) requireRow(ctx context.Context, table string, id int64) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: no row %d in %s", domain.ErrNotFound, id, table)
	}
	if err != nil {
		return fmt.Errorf("%w: looking up %s: %v", domain.ErrStorageUnavailable, table, err)
	}
	return nil
}

// listIngredients runs a (food_id, weight_grams, food record...) query.
func (s *Store) listIngredients(ctx context.Context, query string, id int64) ([]domain.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("%w: listing ingredients: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	ingredients := []domain.Ingredient{}
	var decodeErrs []error
	for rows.Next() {
		var ing domain.Ingredient
		rec, err := scanRecord(rows, &ing.FoodID, &ing.WeightGrams)
		if err != nil {
			return nil, fmt.Errorf("%w: listing ingredients: %v", domain.ErrStorageUnavailable, err)
		}
		food, err := domain.FromRecord(rec)
		if err != nil {
			s.logger.Warn("Skipping undecodable ingredient row", zap.Int64("food_id", int64(ing.FoodID)), zap.Error(err))
			decodeErrs = append(decodeErrs, err)
			continue
		}
		ing.Food = food
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing ingredients: %v", domain.ErrStorageUnavailable, err)
	}
	return ingredients, errors.Join(decodeErrs...)
}
