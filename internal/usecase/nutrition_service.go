package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nutrilog/backend/internal/domain"
	"github.com/nutrilog/backend/internal/infrastructure/nutritionix"
	"go.uber.org/zap"
)

// NutritionServiceConfig holds configuration for the nutrition service
type NutritionServiceConfig struct {
	// Now stamps new diary entries. Defaults to time.Now.
	Now   func() time.Time
	Match MatchConfig
}

// NutritionService coordinates the nutrient source and the food store:
// lookups, imports, pantry stocking, recipes, and diary entries.
type NutritionService struct {
	store   domain.FoodStore
	source  domain.NutrientSource
	matcher *MatchingService
	logger  *zap.Logger
	now     func() time.Time
}

// SearchResult holds the candidates of one query and how many nutrient facts
// were dropped for unknown codes while mapping them.
type SearchResult struct {
	Query   string        `json:"query"`
	Foods   []domain.Food `json:"foods"`
	Dropped int           `json:"droppedNutrients"`
}

// ImportResult lists the foods written by an import, in candidate order.
type ImportResult struct {
	SearchResult
	IDs []domain.FoodID `json:"ids"`
}

// NewNutritionService creates a new nutrition service with dependencies.
// source may be nil for callers that never search.
func NewNutritionService(
	store domain.FoodStore,
	source domain.NutrientSource,
	logger *zap.Logger,
	config NutritionServiceConfig,
) *NutritionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &NutritionService{
		store:   store,
		source:  source,
		matcher: NewMatchingService(config.Match),
		logger:  logger.Named("nutrition"),
		now:     now,
	}
}

// SearchFoods asks the nutrient source for candidates matching query.
// Flow: normalize -> query source -> map codes to catalog names
func (s *NutritionService) SearchFoods(ctx context.Context, query string) (*SearchResult, error) {
	query = normalizeQuery(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidRequest)
	}
	if s.source == nil {
		return nil, fmt.Errorf("%w: no nutrient source configured", domain.ErrNetwork)
	}

	resp, err := s.source.SearchFoods(ctx, query)
	if err != nil {
		return nil, err
	}

	foods, dropped := nutritionix.MapToFoods(resp.Foods, s.logger)
	if dropped > 0 {
		s.logger.Info("Unrecognized nutrient codes dropped",
			zap.String("query", query),
			zap.Int("dropped", dropped))
	}

	return &SearchResult{Query: query, Foods: foods, Dropped: dropped}, nil
}

// ImportFoods persists foods in order. It stops at the first failure and
// returns the ids written before it.
func (s *NutritionService) ImportFoods(ctx context.Context, foods []domain.Food) ([]domain.FoodID, error) {
	ids := make([]domain.FoodID, 0, len(foods))
	for _, food := range foods {
		if err := validateName(food.Name); err != nil {
			return ids, err
		}
		id, err := s.store.InsertFood(ctx, food)
		if err != nil {
			return ids, fmt.Errorf("importing %q: %w", food.Name, err)
		}
		ids = append(ids, id)
	}

	s.logger.Debug("Imported foods", zap.Int("count", len(ids)))
	return ids, nil
}

// SearchAndImport looks query up and stores every candidate.
func (s *NutritionService) SearchAndImport(ctx context.Context, query string) (*ImportResult, error) {
	found, err := s.SearchFoods(ctx, query)
	if err != nil {
		return nil, err
	}

	ids, err := s.ImportFoods(ctx, found.Foods)
	return &ImportResult{SearchResult: *found, IDs: ids}, err
}

// ListFoods returns every stored food. Rows that fail to decode are skipped;
// their errors come back alongside the foods that did decode.
func (s *NutritionService) ListFoods(ctx context.Context) ([]domain.Food, error) {
	return s.store.ListFoods(ctx)
}

// SuggestFoods ranks stored food names that resemble name. Rows that fail to
// decode are left out of the candidates.
func (s *NutritionService) SuggestFoods(ctx context.Context, name string) ([]Suggestion, error) {
	foods, err := s.store.ListFoods(ctx)
	if err != nil && !errors.Is(err, domain.ErrDecode) {
		return nil, err
	}

	names := make([]string, len(foods))
	for i, food := range foods {
		names[i] = food.Name
	}
	return s.matcher.Suggest(name, names), nil
}

// AddPantryItem stocks grams of the food named foodName.
func (s *NutritionService) AddPantryItem(ctx context.Context, foodName string, grams float64) (domain.PantryItemID, error) {
	if err := validateWeight(grams); err != nil {
		return 0, err
	}
	foodID, err := s.store.FindFoodID(ctx, foodName)
	if err != nil {
		return 0, err
	}
	return s.store.InsertPantryItem(ctx, foodID, grams)
}

// ListPantry returns every pantry item with its food name.
func (s *NutritionService) ListPantry(ctx context.Context) ([]domain.PantryItem, error) {
	return s.store.ListPantryItems(ctx)
}

// CreateRecipe creates an empty recipe.
func (s *NutritionService) CreateRecipe(ctx context.Context, name string) (domain.RecipeID, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return 0, err
	}
	return s.store.InsertRecipe(ctx, name)
}

// FindRecipe resolves a recipe name to its id.
func (s *NutritionService) FindRecipe(ctx context.Context, name string) (domain.RecipeID, error) {
	return s.store.FindRecipeID(ctx, strings.TrimSpace(name))
}

// AddRecipeIngredient adds grams of the food named foodName to a recipe.
func (s *NutritionService) AddRecipeIngredient(ctx context.Context, recipeID domain.RecipeID, foodName string, grams float64) error {
	if err := validateWeight(grams); err != nil {
		return err
	}
	foodID, err := s.store.FindFoodID(ctx, foodName)
	if err != nil {
		return err
	}
	return s.store.AddRecipeIngredient(ctx, recipeID, foodID, grams)
}

// RecipeIngredients returns a recipe's ingredients in the order added.
func (s *NutritionService) RecipeIngredients(ctx context.Context, recipeID domain.RecipeID) ([]domain.Ingredient, error) {
	return s.store.ListRecipeIngredients(ctx, recipeID)
}

// RecipeTotals sums the recipe's nutrients, each ingredient scaled from its
// reference serving to the weight used. Undecodable ingredient rows are left
// out of the sum and reported through an error matching domain.ErrDecode.
func (s *NutritionService) RecipeTotals(ctx context.Context, recipeID domain.RecipeID) (map[string]float64, error) {
	ingredients, err := s.store.ListRecipeIngredients(ctx, recipeID)
	if err != nil && !errors.Is(err, domain.ErrDecode) {
		return nil, err
	}
	return domain.Totals(ingredients), err
}

// StartEntry opens a diary entry stamped with the current time.
func (s *NutritionService) StartEntry(ctx context.Context) (domain.EntryID, error) {
	return s.store.InsertEntry(ctx, s.now())
}

// AddEntryFood logs grams of the food named foodName in an entry.
func (s *NutritionService) AddEntryFood(ctx context.Context, entryID domain.EntryID, foodName string, grams float64) error {
	if err := validateWeight(grams); err != nil {
		return err
	}
	foodID, err := s.store.FindFoodID(ctx, foodName)
	if err != nil {
		return err
	}
	return s.store.AddEntryFood(ctx, entryID, foodID, grams)
}

// EntryFoods returns the foods logged in an entry.
func (s *NutritionService) EntryFoods(ctx context.Context, entryID domain.EntryID) ([]domain.Ingredient, error) {
	return s.store.ListEntryFoods(ctx, entryID)
}

// EntryTotals sums the scaled nutrients of an entry. Like RecipeTotals, it
// skips undecodable rows and still returns the sum of the rest.
func (s *NutritionService) EntryTotals(ctx context.Context, entryID domain.EntryID) (map[string]float64, error) {
	foods, err := s.store.ListEntryFoods(ctx, entryID)
	if err != nil && !errors.Is(err, domain.ErrDecode) {
		return nil, err
	}
	return domain.Totals(foods), err
}

// ParseWeight reads a user-typed gram amount. Anything that is not a finite
// number >= 0 is rejected with domain.ErrInvalidRequest.
func ParseWeight(input string) (float64, error) {
	grams, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: weight %q is not a number", domain.ErrInvalidRequest, input)
	}
	if err := validateWeight(grams); err != nil {
		return 0, err
	}
	return grams, nil
}

func validateWeight(grams float64) error {
	// NaN fails every comparison, so test the accepted range
	if !(grams >= 0) || grams > maxWeightGrams {
		return fmt.Errorf("%w: weight %v out of range", domain.ErrInvalidRequest, grams)
	}
	return nil
}

// maxWeightGrams rejects +Inf and obvious typos.
const maxWeightGrams = 1e7

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", domain.ErrInvalidRequest)
	}
	return nil
}
