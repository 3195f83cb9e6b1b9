package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/nutrilog/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockFoodStore is an in-memory implementation of domain.FoodStore
type MockFoodStore struct {
	foods       []domain.Food
	foodIDs     map[string]domain.FoodID
	pantry      []domain.PantryItem
	recipes     map[string]domain.RecipeID
	ingredients map[domain.RecipeID][]domain.Ingredient
	entries     map[domain.EntryID]time.Time
	entryFoods  map[domain.EntryID][]domain.Ingredient

	insertError     error
	listError       error
	ingredientError error
	insertCalls     int
}

func NewMockFoodStore() *MockFoodStore {
	return &MockFoodStore{
		foodIDs:     make(map[string]domain.FoodID),
		recipes:     make(map[string]domain.RecipeID),
		ingredients: make(map[domain.RecipeID][]domain.Ingredient),
		entries:     make(map[domain.EntryID]time.Time),
		entryFoods:  make(map[domain.EntryID][]domain.Ingredient),
	}
}

func (m *MockFoodStore) EnsureSchema(ctx context.Context) error { return nil }

func (m *MockFoodStore) InsertFood(ctx context.Context, food domain.Food) (domain.FoodID, error) {
	m.insertCalls++
	if m.insertError != nil {
		return 0, m.insertError
	}
	if _, ok := m.foodIDs[food.Name]; ok {
		return 0, domain.ErrDuplicateName
	}
	m.foods = append(m.foods, food)
	id := domain.FoodID(len(m.foods))
	m.foodIDs[food.Name] = id
	return id, nil
}

func (m *MockFoodStore) ListFoods(ctx context.Context) ([]domain.Food, error) {
	return m.foods, m.listError
}

func (m *MockFoodStore) FindFoodID(ctx context.Context, name string) (domain.FoodID, error) {
	id, ok := m.foodIDs[name]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

func (m *MockFoodStore) food(id domain.FoodID) (domain.Food, bool) {
	if id < 1 || int(id) > len(m.foods) {
		return domain.Food{}, false
	}
	return m.foods[id-1], true
}

func (m *MockFoodStore) InsertPantryItem(ctx context.Context, foodID domain.FoodID, weightGrams float64) (domain.PantryItemID, error) {
	food, ok := m.food(foodID)
	if !ok {
		return 0, domain.ErrForeignKeyViolation
	}
	id := domain.PantryItemID(len(m.pantry) + 1)
	m.pantry = append(m.pantry, domain.PantryItem{
		ID: id, FoodID: foodID, FoodName: food.Name,
		WeightGrams: weightGrams, WeightGramsRemaining: weightGrams,
	})
	return id, nil
}

func (m *MockFoodStore) ListPantryItems(ctx context.Context) ([]domain.PantryItem, error) {
	return m.pantry, nil
}

func (m *MockFoodStore) InsertRecipe(ctx context.Context, name string) (domain.RecipeID, error) {
	if _, ok := m.recipes[name]; ok {
		return 0, domain.ErrDuplicateName
	}
	id := domain.RecipeID(len(m.recipes) + 1)
	m.recipes[name] = id
	return id, nil
}

func (m *MockFoodStore) FindRecipeID(ctx context.Context, name string) (domain.RecipeID, error) {
	id, ok := m.recipes[name]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

func (m *MockFoodStore) AddRecipeIngredient(ctx context.Context, recipeID domain.RecipeID, foodID domain.FoodID, weightGrams float64) error {
	ing, err := m.ingredient(m.ingredients[recipeID], foodID, weightGrams)
	if err != nil {
		return err
	}
	m.ingredients[recipeID] = append(m.ingredients[recipeID], ing)
	return nil
}

func (m *MockFoodStore) ListRecipeIngredients(ctx context.Context, recipeID domain.RecipeID) ([]domain.Ingredient, error) {
	for _, id := range m.recipes {
		if id == recipeID {
			return m.ingredients[recipeID], m.ingredientError
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockFoodStore) InsertEntry(ctx context.Context, timestamp time.Time) (domain.EntryID, error) {
	id := domain.EntryID(len(m.entries) + 1)
	m.entries[id] = timestamp
	return id, nil
}

func (m *MockFoodStore) AddEntryFood(ctx context.Context, entryID domain.EntryID, foodID domain.FoodID, weightGrams float64) error {
	if _, ok := m.entries[entryID]; !ok {
		return domain.ErrForeignKeyViolation
	}
	ing, err := m.ingredient(m.entryFoods[entryID], foodID, weightGrams)
	if err != nil {
		return err
	}
	m.entryFoods[entryID] = append(m.entryFoods[entryID], ing)
	return nil
}

func (m *MockFoodStore) ListEntryFoods(ctx context.Context, entryID domain.EntryID) ([]domain.Ingredient, error) {
	if _, ok := m.entries[entryID]; !ok {
		return nil, domain.ErrNotFound
	}
	return m.entryFoods[entryID], m.ingredientError
}

func (m *MockFoodStore) ingredient(existing []domain.Ingredient, foodID domain.FoodID, weightGrams float64) (domain.Ingredient, error) {
	food, ok := m.food(foodID)
	if !ok {
		return domain.Ingredient{}, domain.ErrForeignKeyViolation
	}
	for _, ing := range existing {
		if ing.FoodID == foodID {
			return domain.Ingredient{}, domain.ErrDuplicateIngredient
		}
	}
	return domain.Ingredient{Food: food, FoodID: foodID, WeightGrams: weightGrams}, nil
}

// MockNutrientSource is a mock implementation of domain.NutrientSource
type MockNutrientSource struct {
	searchResult *domain.ExternalSearchResponse
	searchError  error
	lastQuery    string
}

func (m *MockNutrientSource) SearchFoods(ctx context.Context, query string) (*domain.ExternalSearchResponse, error) {
	m.lastQuery = query
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.searchResult, nil
}

func appleResponse() *domain.ExternalSearchResponse {
	return &domain.ExternalSearchResponse{
		Foods: []domain.ExternalFood{
			{
				FoodName:           "apple",
				ServingWeightGrams: 182,
				FullNutrients: []domain.NutrientFact{
					{Code: 208, Value: 94},
					{Code: 205, Value: 25},
					{Code: 424242, Value: 7},
				},
			},
			{
				FoodName:           "banana",
				ServingWeightGrams: 118,
				FullNutrients:      []domain.NutrientFact{{Code: 208, Value: 105}},
			},
		},
	}
}

func newService(t *testing.T, store *MockFoodStore, source domain.NutrientSource) *NutritionService {
	t.Helper()
	return NewNutritionService(store, source, zaptest.NewLogger(t), NutritionServiceConfig{})
}

func TestSearchFoods(t *testing.T) {
	ctx := context.Background()

	t.Run("maps candidates and counts dropped codes", func(t *testing.T) {
		source := &MockNutrientSource{searchResult: appleResponse()}
		svc := newService(t, NewMockFoodStore(), source)

		result, err := svc.SearchFoods(ctx, "  1 apple \t and  a banana ")

		require.NoError(t, err)
		assert.Equal(t, "1 apple and a banana", source.lastQuery)
		assert.Equal(t, "1 apple and a banana", result.Query)
		require.Len(t, result.Foods, 2)
		assert.Equal(t, map[string]float64{"energy": 94, "carbohydrates": 25}, result.Foods[0].Nutrients)
		assert.Equal(t, 1, result.Dropped)
	})

	t.Run("empty query", func(t *testing.T) {
		source := &MockNutrientSource{}
		svc := newService(t, NewMockFoodStore(), source)

		_, err := svc.SearchFoods(ctx, "   ")

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Empty(t, source.lastQuery)
	})

	t.Run("source errors pass through", func(t *testing.T) {
		for _, want := range []error{domain.ErrNotFound, domain.ErrNetwork} {
			svc := newService(t, NewMockFoodStore(), &MockNutrientSource{searchError: want})

			_, err := svc.SearchFoods(ctx, "xyzzy")

			assert.ErrorIs(t, err, want)
		}
	})

	t.Run("no source configured", func(t *testing.T) {
		svc := newService(t, NewMockFoodStore(), nil)

		_, err := svc.SearchFoods(ctx, "apple")

		assert.ErrorIs(t, err, domain.ErrNetwork)
	})
}

func TestImportFoods(t *testing.T) {
	ctx := context.Background()

	t.Run("stores in order", func(t *testing.T) {
		store := NewMockFoodStore()
		svc := newService(t, store, nil)

		ids, err := svc.ImportFoods(ctx, []domain.Food{{Name: "apple"}, {Name: "pear"}})

		require.NoError(t, err)
		assert.Equal(t, []domain.FoodID{1, 2}, ids)
	})

	t.Run("stops at first failure", func(t *testing.T) {
		store := NewMockFoodStore()
		svc := newService(t, store, nil)

		ids, err := svc.ImportFoods(ctx, []domain.Food{{Name: "apple"}, {Name: "apple"}, {Name: "pear"}})

		assert.ErrorIs(t, err, domain.ErrDuplicateName)
		assert.Equal(t, []domain.FoodID{1}, ids)
		assert.Equal(t, 2, store.insertCalls)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		store := NewMockFoodStore()
		svc := newService(t, store, nil)

		_, err := svc.ImportFoods(ctx, []domain.Food{{Name: " "}})

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Zero(t, store.insertCalls)
	})
}

func TestSearchAndImport(t *testing.T) {
	store := NewMockFoodStore()
	svc := newService(t, store, &MockNutrientSource{searchResult: appleResponse()})

	result, err := svc.SearchAndImport(context.Background(), "apple and banana")

	require.NoError(t, err)
	assert.Equal(t, []domain.FoodID{1, 2}, result.IDs)
	assert.Equal(t, 1, result.Dropped)
	assert.Len(t, store.foods, 2)
}

func TestListFoods_PassesDecodeErrors(t *testing.T) {
	store := NewMockFoodStore()
	store.foods = []domain.Food{{Name: "apple"}}
	store.listError = &domain.DecodeError{Field: "energy", Reason: "not a number"}
	svc := newService(t, store, nil)

	foods, err := svc.ListFoods(context.Background())

	assert.Len(t, foods, 1)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestAddPantryItem(t *testing.T) {
	ctx := context.Background()
	store := NewMockFoodStore()
	_, err := store.InsertFood(ctx, domain.Food{Name: "apple", WeightGrams: 182})
	require.NoError(t, err)
	svc := newService(t, store, nil)

	tests := []struct {
		name    string
		food    string
		grams   float64
		wantErr error
	}{
		{"known food", "apple", 200, nil},
		{"unknown food", "kiwi", 200, domain.ErrNotFound},
		{"negative weight", "apple", -1, domain.ErrInvalidRequest},
		{"NaN weight", "apple", math.NaN(), domain.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddPantryItem(ctx, tt.food, tt.grams)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	items, err := svc.ListPantry(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 200.0, items[0].WeightGramsRemaining)
}

func TestRecipeFlow(t *testing.T) {
	ctx := context.Background()
	store := NewMockFoodStore()
	_, err := store.InsertFood(ctx, domain.Food{Name: "apple", WeightGrams: 100, Nutrients: map[string]float64{"energy": 50}})
	require.NoError(t, err)
	_, err = store.InsertFood(ctx, domain.Food{Name: "walnut", WeightGrams: 10, Nutrients: map[string]float64{"energy": 65, "protein": 1.5}})
	require.NoError(t, err)
	svc := newService(t, store, nil)

	id, err := svc.CreateRecipe(ctx, " Salad ")
	require.NoError(t, err)

	_, err = svc.CreateRecipe(ctx, "Salad")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = svc.CreateRecipe(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	found, err := svc.FindRecipe(ctx, "Salad")
	require.NoError(t, err)
	assert.Equal(t, id, found)

	require.NoError(t, svc.AddRecipeIngredient(ctx, id, "apple", 200))
	require.NoError(t, svc.AddRecipeIngredient(ctx, id, "walnut", 20))
	assert.ErrorIs(t, svc.AddRecipeIngredient(ctx, id, "apple", 50), domain.ErrDuplicateIngredient)
	assert.ErrorIs(t, svc.AddRecipeIngredient(ctx, id, "kiwi", 50), domain.ErrNotFound)

	ingredients, err := svc.RecipeIngredients(ctx, id)
	require.NoError(t, err)
	assert.Len(t, ingredients, 2)

	totals, err := svc.RecipeTotals(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, 230.0, totals["energy"], 1e-9)
	assert.InDelta(t, 3.0, totals["protein"], 1e-9)
}

func TestTotals_SkipUndecodableRows(t *testing.T) {
	ctx := context.Background()
	store := NewMockFoodStore()
	_, err := store.InsertFood(ctx, domain.Food{Name: "apple", WeightGrams: 100, Nutrients: map[string]float64{"energy": 50}})
	require.NoError(t, err)
	svc := newService(t, store, nil)

	recipeID, err := svc.CreateRecipe(ctx, "Salad")
	require.NoError(t, err)
	require.NoError(t, svc.AddRecipeIngredient(ctx, recipeID, "apple", 200))
	entryID, err := svc.StartEntry(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.AddEntryFood(ctx, entryID, "apple", 50))

	// The store hands back the rows it could read plus the joined decode errors.
	store.ingredientError = errors.Join(&domain.DecodeError{Field: "energy", Reason: "not numeric: lots"})

	totals, err := svc.RecipeTotals(ctx, recipeID)
	assert.ErrorIs(t, err, domain.ErrDecode)
	require.NotNil(t, totals)
	assert.InDelta(t, 100.0, totals["energy"], 1e-9)

	totals, err = svc.EntryTotals(ctx, entryID)
	assert.ErrorIs(t, err, domain.ErrDecode)
	require.NotNil(t, totals)
	assert.InDelta(t, 25.0, totals["energy"], 1e-9)
}

func TestTotals_UnknownParent(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, NewMockFoodStore(), nil)

	totals, err := svc.RecipeTotals(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, totals)

	totals, err = svc.EntryTotals(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, totals)
}

func TestEntryFlow(t *testing.T) {
	ctx := context.Background()
	store := NewMockFoodStore()
	_, err := store.InsertFood(ctx, domain.Food{Name: "apple", WeightGrams: 182, Nutrients: map[string]float64{"energy": 91}})
	require.NoError(t, err)

	stamp := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	svc := NewNutritionService(store, nil, zaptest.NewLogger(t), NutritionServiceConfig{
		Now: func() time.Time { return stamp },
	})

	id, err := svc.StartEntry(ctx)
	require.NoError(t, err)
	assert.Equal(t, stamp, store.entries[id])

	require.NoError(t, svc.AddEntryFood(ctx, id, "apple", 91))
	assert.ErrorIs(t, svc.AddEntryFood(ctx, id, "apple", 91), domain.ErrDuplicateIngredient)
	assert.ErrorIs(t, svc.AddEntryFood(ctx, id+1, "apple", 91), domain.ErrForeignKeyViolation)

	foods, err := svc.EntryFoods(ctx, id)
	require.NoError(t, err)
	assert.Len(t, foods, 1)

	totals, err := svc.EntryTotals(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, 45.5, totals["energy"], 1e-9)
}

func TestParseWeight(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"200", 200, false},
		{" 12.5 ", 12.5, false},
		{"0", 0, false},
		{"1e3", 1000, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-5", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeight(tt.input)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidRequest) {
					t.Errorf("ParseWeight(%q) error = %v, want ErrInvalidRequest", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWeight(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseWeight(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
