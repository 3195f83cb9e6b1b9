package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/nutrilog/backend/internal/domain"
	"github.com/nutrilog/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newPantryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pantry",
		Short: "Manage pantry stock",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <food> <grams>",
		Short: "Stock grams of a stored food",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			grams, err := usecase.ParseWeight(args[1])
			if err != nil {
				return err
			}
			id, err := a.service.AddPantryItem(cmd.Context(), args[0], grams)
			if err != nil {
				return foodMiss(cmd, a, args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pantry item %d: %g g of %s\n", id, grams, args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List pantry items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.service.ListPantry(cmd.Context())
			if err != nil {
				return err
			}
			printPantry(cmd, items)
			return nil
		},
	})

	return cmd
}

func printPantry(cmd *cobra.Command, items []domain.PantryItem) {
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "Pantry is empty")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFOOD\tGRAMS\tREMAINING")
	for _, item := range items {
		fmt.Fprintf(tw, "%d\t%s\t%g\t%g\n", item.ID, item.FoodName, item.WeightGrams, item.WeightGramsRemaining)
	}
	tw.Flush()
}
