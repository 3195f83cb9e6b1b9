package store

import (
	"fmt"
	"strings"

	"github.com/nutrilog/backend/internal/domain"
)

// Statements touching the nutrient columns are generated from the catalog so
// the DDL, the insert, and the select cannot drift apart.
var (
	foodColumns     = append([]string{"name", "weight_grams"}, domain.Catalog()...)
	createFoodItems = buildCreateFoodItems()
	insertFoodSQL   = fmt.Sprintf(
		"INSERT INTO food_items (%s) VALUES (%s)",
		strings.Join(foodColumns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(foodColumns)), ", "),
	)
	selectFoodsSQL = fmt.Sprintf(
		"SELECT %s FROM food_items ORDER BY id",
		strings.Join(foodColumns, ", "),
	)
)

func buildCreateFoodItems() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS food_items (\n")
	b.WriteString("\tid INTEGER PRIMARY KEY AUTOINCREMENT,\n")
	b.WriteString("\tname TEXT NOT NULL UNIQUE,\n")
	b.WriteString("\tweight_grams REAL NOT NULL")
	for _, nutrient := range domain.Catalog() {
		fmt.Fprintf(&b, ",\n\t%s REAL NOT NULL", nutrient)
	}
	b.WriteString("\n)")
	return b.String()
}

// qualifiedFoodColumns returns the food columns prefixed with a table alias.
func qualifiedFoodColumns(alias string) string {
	cols := make([]string, len(foodColumns))
	for i, c := range foodColumns {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

var schema = []string{
	createFoodItems,
	`CREATE TABLE IF NOT EXISTS pantry (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		food_id INTEGER NOT NULL,
		weight_grams REAL NOT NULL,
		weight_grams_remaining REAL NOT NULL,
		FOREIGN KEY (food_id) REFERENCES food_items (id)
	)`,
	`CREATE TABLE IF NOT EXISTS recipes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS recipe_ingredients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recipe_id INTEGER NOT NULL,
		food_id INTEGER NOT NULL,
		weight_grams REAL NOT NULL,
		FOREIGN KEY (recipe_id) REFERENCES recipes (id),
		FOREIGN KEY (food_id) REFERENCES food_items (id),
		UNIQUE (recipe_id, food_id)
	)`,
	`CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS entry_foods (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entry_id INTEGER NOT NULL,
		food_id INTEGER NOT NULL,
		weight_grams REAL NOT NULL,
		FOREIGN KEY (entry_id) REFERENCES entries (id),
		FOREIGN KEY (food_id) REFERENCES food_items (id),
		UNIQUE (entry_id, food_id)
	)`,
}
