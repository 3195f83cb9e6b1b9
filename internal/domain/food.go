package domain

import "time"

// Row identifiers assigned by the store
type (
	FoodID       int64
	PantryItemID int64
	RecipeID     int64
	EntryID      int64
)

// Food is a named food with nutrient amounts for one reference serving.
// Nutrients may be sparse (fresh from the external source) or dense (read
// back from storage); a missing nutrient counts as zero.
type Food struct {
	Name        string             `json:"name"`
	WeightGrams float64            `json:"weightGrams"`
	Nutrients   map[string]float64 `json:"nutrients"`
}

// Nutrient returns the amount per serving, zero when absent.
func (f Food) Nutrient(name string) float64 {
	return f.Nutrients[name]
}

// ScaledTo returns the nutrient amounts for grams of this food. A food with
// no reference weight cannot be scaled and yields an empty map.
func (f Food) ScaledTo(grams float64) map[string]float64 {
	out := make(map[string]float64, len(f.Nutrients))
	if f.WeightGrams <= 0 {
		return out
	}
	factor := grams / f.WeightGrams
	for name, amount := range f.Nutrients {
		out[name] = amount * factor
	}
	return out
}

// PantryItem is a stocked quantity of a food. WeightGramsRemaining starts
// equal to WeightGrams; nothing decrements it yet.
type PantryItem struct {
	ID                   PantryItemID `json:"id"`
	FoodID               FoodID       `json:"foodId"`
	FoodName             string       `json:"foodName"`
	WeightGrams          float64      `json:"weightGrams"`
	WeightGramsRemaining float64      `json:"weightGramsRemaining"`
}

// Recipe is a named, ordered list of ingredients.
type Recipe struct {
	ID          RecipeID     `json:"id"`
	Name        string       `json:"name"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
}

// Ingredient is one (food, weight) pair of a recipe or diary entry. A food
// appears at most once per recipe and once per entry.
type Ingredient struct {
	Food        Food    `json:"food"`
	FoodID      FoodID  `json:"foodId"`
	WeightGrams float64 `json:"weightGrams"`
}

// Entry is one logged meal event.
type Entry struct {
	ID        EntryID      `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Foods     []Ingredient `json:"foods,omitempty"`
}

// EntryTimestampLayout is the stored form of Entry.Timestamp (UTC).
const EntryTimestampLayout = time.DateTime

// Totals sums the scaled nutrients of every ingredient.
func Totals(ingredients []Ingredient) map[string]float64 {
	totals := make(map[string]float64)
	for _, ing := range ingredients {
		for name, amount := range ing.Food.ScaledTo(ing.WeightGrams) {
			totals[name] += amount
		}
	}
	return totals
}
