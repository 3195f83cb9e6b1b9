package store

import (
	"context"
	"fmt"

	"github.com/nutrilog/backend/internal/domain"
	"go.uber.org/zap"
)

// InsertPantryItem stocks weightGrams of a food; the remaining weight starts
// at the same value.
func (s *Store) InsertPantryItem(ctx context.Context, foodID domain.FoodID, weightGrams float64) (domain.PantryItemID, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO pantry (food_id, weight_grams, weight_grams_remaining) VALUES (?, ?, ?)",
		int64(foodID), weightGrams, weightGrams,
	)
	if err != nil {
		return 0, classify(err, domain.ErrStorage)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	s.logger.Debug("Inserted pantry item", zap.Int64("id", id), zap.Int64("food_id", int64(foodID)))
	return domain.PantryItemID(id), nil
}

// ListPantryItems returns every pantry row with its food name.
func (s *Store) ListPantryItems(ctx context.Context) ([]domain.PantryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.food_id, f.name, p.weight_grams, p.weight_grams_remaining
		FROM pantry p
		JOIN food_items f ON f.id = p.food_id
		ORDER BY p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing pantry: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	items := []domain.PantryItem{}
	for rows.Next() {
		var item domain.PantryItem
		if err := rows.Scan(&item.ID, &item.FoodID, &item.FoodName, &item.WeightGrams, &item.WeightGramsRemaining); err != nil {
			return nil, fmt.Errorf("%w: listing pantry: %v", domain.ErrStorageUnavailable, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing pantry: %v", domain.ErrStorageUnavailable, err)
	}
	return items, nil
}
