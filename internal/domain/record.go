package domain

import (
	"fmt"
	"strconv"
)

// Record is the positional form of a food as stored in food_items:
// name, weight_grams, then one amount per catalog nutrient in catalog order.
type Record []any

// RecordWidth is the number of fields in every Record.
func RecordWidth() int {
	return len(catalog) + 2
}

// ToRecord lays out a food in storage order. Nutrients absent from the map
// are written as 0; keys outside the catalog are ignored.
func ToRecord(name string, weightGrams float64, nutrients map[string]float64) Record {
	rec := make(Record, 0, RecordWidth())
	rec = append(rec, name, weightGrams)
	for _, nutrient := range catalog {
		rec = append(rec, nutrients[nutrient])
	}
	return rec
}

// FoodRecord is ToRecord for an existing Food.
func FoodRecord(f Food) Record {
	return ToRecord(f.Name, f.WeightGrams, f.Nutrients)
}

// FromRecord rebuilds a Food with a dense nutrient map from a stored row.
func FromRecord(row Record) (Food, error) {
	if len(row) != RecordWidth() {
		return Food{}, &DecodeError{
			Reason: fmt.Sprintf("expected %d fields, got %d", RecordWidth(), len(row)),
		}
	}

	name, ok := asString(row[0])
	if !ok {
		return Food{}, &DecodeError{Field: "name", Reason: fmt.Sprintf("not text: %T", row[0])}
	}
	weight, ok := asFloat(row[1])
	if !ok {
		return Food{}, &DecodeError{Field: "weight_grams", Reason: fmt.Sprintf("not numeric: %v", row[1])}
	}

	nutrients := make(map[string]float64, len(catalog))
	for i, nutrient := range catalog {
		v, ok := asFloat(row[i+2])
		if !ok {
			return Food{}, &DecodeError{Field: nutrient, Reason: fmt.Sprintf("not numeric: %v", row[i+2])}
		}
		nutrients[nutrient] = v
	}

	return Food{Name: name, WeightGrams: weight, Nutrients: nutrients}, nil
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	}
	return "", false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	}
	return 0, false
}
