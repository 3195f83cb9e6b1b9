package main

import (
	"errors"
	"fmt"

	"github.com/nutrilog/backend/internal/domain"
	"github.com/nutrilog/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newRecipeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Build recipes from stored foods",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.service.CreateRecipe(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("recipe %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recipe %d: %s\n", id, args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <recipe> <food> <grams> [<food> <grams>...]",
		Short: "Add foods to a recipe",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 || (len(args)-1)%2 != 0 {
				return fmt.Errorf("expected a recipe name followed by food/grams pairs")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			recipeID, err := a.service.FindRecipe(ctx, args[0])
			if err != nil {
				return fmt.Errorf("recipe %q: %w", args[0], err)
			}

			for i := 1; i < len(args); i += 2 {
				food := args[i]
				grams, err := usecase.ParseWeight(args[i+1])
				if err != nil {
					return err
				}
				if err := a.service.AddRecipeIngredient(ctx, recipeID, food, grams); err != nil {
					return foodMiss(cmd, a, food, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %g g of %s to %s\n", grams, food, args[0])
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show a recipe's ingredients and nutrient totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			recipeID, err := a.service.FindRecipe(ctx, args[0])
			if err != nil {
				return fmt.Errorf("recipe %q: %w", args[0], err)
			}

			ingredients, err := a.service.RecipeIngredients(ctx, recipeID)
			if err != nil && !errors.Is(err, domain.ErrDecode) {
				return err
			}
			totals, err := a.service.RecipeTotals(ctx, recipeID)
			if err != nil && !errors.Is(err, domain.ErrDecode) {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", args[0])
			for _, ing := range ingredients {
				fmt.Fprintf(out, "  %g g %s\n", ing.WeightGrams, ing.Food.Name)
			}
			fmt.Fprintln(out, "Totals:")
			printTotals(out, totals)
			warnSkipped(cmd, err)
			return nil
		},
	})

	return cmd
}
