package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/nutrilog/backend/internal/domain"
	"github.com/nutrilog/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the database tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The root already ran EnsureSchema; running it again is harmless.
			if err := a.store.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema ready in %s (%d nutrients)\n", a.store.Path(), domain.CatalogSize())
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Look foods up in Nutritionix without storing them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSource(); err != nil {
				return err
			}

			result, err := a.service.SearchFoods(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return searchError(err)
			}

			out := cmd.OutOrStdout()
			for _, food := range result.Foods {
				printFood(out, food, showAll)
			}
			if result.Dropped > 0 {
				fmt.Fprintf(out, "(%d nutrient values had no catalog entry and were dropped)\n", result.Dropped)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showAll, "all", false, "print zero-valued nutrients too")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <query>",
		Short: "Look foods up in Nutritionix and store every match",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSource(); err != nil {
				return err
			}

			result, err := a.service.SearchAndImport(cmd.Context(), strings.Join(args, " "))
			if result != nil {
				for i, id := range result.IDs {
					fmt.Fprintf(cmd.OutOrStdout(), "Stored %s (id %d)\n", result.Foods[i].Name, id)
				}
			}
			if err != nil {
				return searchError(err)
			}
			return nil
		},
	}
}

func newFoodsCmd(a *app) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "foods",
		Short: "List stored foods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			foods, err := a.service.ListFoods(cmd.Context())
			if err != nil && !errors.Is(err, domain.ErrDecode) {
				return err
			}

			out := cmd.OutOrStdout()
			if len(foods) == 0 && err == nil {
				fmt.Fprintln(out, "No foods stored yet")
				return nil
			}
			for _, food := range foods {
				printFood(out, food, showAll)
			}
			warnSkipped(cmd, err)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showAll, "all", false, "print zero-valued nutrients too")
	return cmd
}

// warnSkipped reports rows that were left out because they could not be
// decoded. A nil err prints nothing.
func warnSkipped(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: some rows could not be read: %v\n", err)
	}
}

// searchError words source failures the way a user reads them: any failed
// lookup is "not found".
func searchError(err error) error {
	if errors.Is(err, domain.ErrNetwork) {
		return fmt.Errorf("%w (nutrient source unavailable)", domain.ErrNotFound)
	}
	return err
}

// printFood writes a food and its nutrients in catalog order
func printFood(w io.Writer, food domain.Food, showAll bool) {
	fmt.Fprintf(w, "%s (%g g)\n", food.Name, food.WeightGrams)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range domain.Catalog() {
		amount, ok := food.Nutrients[name]
		if !ok || (amount == 0 && !showAll) {
			continue
		}
		fmt.Fprintf(tw, "  %s\t%g\n", name, amount)
	}
	tw.Flush()
}

// printTotals writes summed nutrients, largest first
func printTotals(w io.Writer, totals map[string]float64) {
	names := make([]string, 0, len(totals))
	for name, amount := range totals {
		if amount != 0 {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%.2f\n", name, totals[name])
	}
	tw.Flush()
}

// foodMiss adds "did you mean" names to a not-found error for foodName
func foodMiss(cmd *cobra.Command, a *app, foodName string, err error) error {
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	suggestions, suggestErr := a.service.SuggestFoods(cmd.Context(), foodName)
	if suggestErr != nil || len(suggestions) == 0 {
		return fmt.Errorf("food %q: %w", foodName, err)
	}
	return fmt.Errorf("food %q: %w (did you mean %s?)", foodName, err, joinSuggestions(suggestions))
}

func joinSuggestions(suggestions []usecase.Suggestion) string {
	names := make([]string, len(suggestions))
	for i, s := range suggestions {
		names[i] = fmt.Sprintf("%q", s.Name)
	}
	return strings.Join(names, ", ")
}
