package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nutrilog/backend/internal/domain"
	"go.uber.org/zap"
)

// InsertFood stores a food, writing 0 for every nutrient it does not report.
func (s *Store) InsertFood(ctx context.Context, food domain.Food) (domain.FoodID, error) {
	res, err := s.db.ExecContext(ctx, insertFoodSQL, domain.FoodRecord(food)...)
	if err != nil {
		return 0, classify(err, domain.ErrDuplicateName)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	s.logger.Debug("Inserted food", zap.String("name", food.Name), zap.Int64("id", id))
	return domain.FoodID(id), nil
}

// ListFoods returns every stored food with a dense nutrient map. Rows that
// fail to decode are skipped; their errors are joined and returned together
// with the foods that did decode.
func (s *Store) ListFoods(ctx context.Context) ([]domain.Food, error) {
	rows, err := s.db.QueryContext(ctx, selectFoodsSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: listing foods: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	foods := []domain.Food{}
	var decodeErrs []error
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: listing foods: %v", domain.ErrStorageUnavailable, err)
		}
		food, err := domain.FromRecord(rec)
		if err != nil {
			s.logger.Warn("Skipping undecodable food row", zap.Error(err))
			decodeErrs = append(decodeErrs, err)
			continue
		}
		foods = append(foods, food)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing foods: %v", domain.ErrStorageUnavailable, err)
	}

	return foods, errors.Join(decodeErrs...)
}

// FindFoodID looks a food up by exact name.
func (s *Store) FindFoodID(ctx context.Context, name string) (domain.FoodID, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM food_items WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: food %q", domain.ErrNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return domain.FoodID(id), nil
}

// scanRecord scans a row made of the lead columns followed by a full food
// record.
func scanRecord(rows *sql.Rows, lead ...any) (domain.Record, error) {
	values := make([]any, domain.RecordWidth())
	dest := make([]any, 0, len(lead)+len(values))
	dest = append(dest, lead...)
	for i := range values {
		dest = append(dest, &values[i])
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	return domain.Record(values), nil
}
