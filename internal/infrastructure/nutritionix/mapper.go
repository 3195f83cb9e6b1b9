package nutritionix

import (
	"github.com/nutrilog/backend/internal/domain"
	"go.uber.org/zap"
)

// MapToFood converts one API candidate into a Food with a sparse nutrient
// map. It also returns the nutrient codes that have no catalog entry.
func MapToFood(apiFood domain.ExternalFood) (domain.Food, []uint32) {
	nutrients, dropped := domain.ResolveNutrients(apiFood.FullNutrients)
	return domain.Food{
		Name:        apiFood.FoodName,
		WeightGrams: apiFood.ServingWeightGrams,
		Nutrients:   nutrients,
	}, dropped
}

// MapToFoods converts every candidate and reports the total number of facts
// dropped for unknown codes. Each drop is logged so gaps in the catalog show
// up in the logs.
func MapToFoods(apiFoods []domain.ExternalFood, logger *zap.Logger) ([]domain.Food, int) {
	if logger == nil {
		logger = zap.NewNop()
	}

	foods := make([]domain.Food, 0, len(apiFoods))
	droppedTotal := 0
	for _, apiFood := range apiFoods {
		food, dropped := MapToFood(apiFood)
		if len(dropped) > 0 {
			logger.Debug("Dropped unrecognized nutrient codes",
				zap.String("food", apiFood.FoodName),
				zap.Int("count", len(dropped)),
				zap.Uint32s("codes", dropped))
			droppedTotal += len(dropped)
		}
		foods = append(foods, food)
	}
	return foods, droppedTotal
}
