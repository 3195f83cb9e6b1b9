package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nutrilog/backend/internal/domain"
	"go.uber.org/zap"
)

// InsertEntry records a meal event at timestamp, stored in UTC to the second.
func (s *Store) InsertEntry(ctx context.Context, timestamp time.Time) (domain.EntryID, error) {
	stamp := timestamp.UTC().Truncate(time.Second).Format(domain.EntryTimestampLayout)
	res, err := s.db.ExecContext(ctx, "INSERT INTO entries (timestamp) VALUES (?)", stamp)
	if err != nil {
		return 0, classify(err, domain.ErrStorage)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	s.logger.Debug("Inserted entry", zap.Int64("id", id), zap.String("timestamp", stamp))
	return domain.EntryID(id), nil
}

// AddEntryFood logs a food in an entry. Each food may appear once per entry.
func (s *Store) AddEntryFood(ctx context.Context, entryID domain.EntryID, foodID domain.FoodID, weightGrams float64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO entry_foods (entry_id, food_id, weight_grams) VALUES (?, ?, ?)",
		int64(entryID), int64(foodID), weightGrams,
	)
	if err != nil {
		return classify(err, domain.ErrDuplicateIngredient)
	}

	s.logger.Debug("Added entry food",
		zap.Int64("entry_id", int64(entryID)),
		zap.Int64("food_id", int64(foodID)),
		zap.Float64("weight_grams", weightGrams))
	return nil
}

// ListEntryFoods returns the foods logged in an entry in insertion order.
// An unknown entry is domain.ErrNotFound.
func (s *Store) ListEntryFoods(ctx context.Context, entryID domain.EntryID) ([]domain.Ingredient, error) {
	if err := s.requireRow(ctx, "entries", int64(entryID)); err != nil {
		return nil, err
	}
	return s.listIngredients(ctx, selectEntryFoodsSQL, int64(entryID))
}
