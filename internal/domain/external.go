package domain

// NutrientFact is one (code, value) pair reported by the external source
type NutrientFact struct {
	Code  uint32  `json:"attr_id"`
	Value float64 `json:"value"`
}

// ExternalFood is a candidate food returned by the external source
type ExternalFood struct {
	FoodName           string         `json:"food_name"`
	ServingWeightGrams float64        `json:"serving_weight_grams"`
	FullNutrients      []NutrientFact `json:"full_nutrients"`
}

// ExternalSearchResponse is the body of a natural-language nutrient query
type ExternalSearchResponse struct {
	Foods []ExternalFood `json:"foods"`
}

// ResolveNutrients converts external facts into a sparse nutrient map keyed
// by catalog name. Facts with unknown codes are left out and their codes
// returned in dropped. A repeated code keeps its last value.
func ResolveNutrients(facts []NutrientFact) (nutrients map[string]float64, dropped []uint32) {
	nutrients = make(map[string]float64, len(facts))
	for _, fact := range facts {
		name, ok := NutrientName(fact.Code)
		if !ok {
			dropped = append(dropped, fact.Code)
			continue
		}
		nutrients[name] = fact.Value
	}
	return nutrients, dropped
}
