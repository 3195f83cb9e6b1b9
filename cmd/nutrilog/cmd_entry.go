package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nutrilog/backend/internal/domain"
	"github.com/nutrilog/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newEntryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Log meals",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create [<food> <grams>...]",
		Short: "Start a meal entry stamped now, optionally with foods",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args)%2 != 0 {
				return fmt.Errorf("expected food/grams pairs")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.service.StartEntry(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entry %d\n", id)
			return addEntryFoods(cmd, a, id, args)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <entry-id> <food> <grams> [<food> <grams>...]",
		Short: "Add foods to an entry",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 || (len(args)-1)%2 != 0 {
				return fmt.Errorf("expected an entry id followed by food/grams pairs")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			return addEntryFoods(cmd, a, id, args[1:])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <entry-id>",
		Short: "Show an entry's foods and nutrient totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}

			foods, err := a.service.EntryFoods(cmd.Context(), id)
			if err != nil && !errors.Is(err, domain.ErrDecode) {
				return err
			}
			totals, err := a.service.EntryTotals(cmd.Context(), id)
			if err != nil && !errors.Is(err, domain.ErrDecode) {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entry %d\n", id)
			for _, f := range foods {
				fmt.Fprintf(out, "  %g g %s\n", f.WeightGrams, f.Food.Name)
			}
			fmt.Fprintln(out, "Totals:")
			printTotals(out, totals)
			warnSkipped(cmd, err)
			return nil
		},
	})

	return cmd
}

// addEntryFoods logs each food/grams pair, stopping at the first failure
func addEntryFoods(cmd *cobra.Command, a *app, id domain.EntryID, pairs []string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		food := pairs[i]
		grams, err := usecase.ParseWeight(pairs[i+1])
		if err != nil {
			return err
		}
		if err := a.service.AddEntryFood(cmd.Context(), id, food, grams); err != nil {
			return foodMiss(cmd, a, food, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged %g g of %s\n", grams, food)
	}
	return nil
}

func parseEntryID(s string) (domain.EntryID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: entry id %q", domain.ErrInvalidRequest, s)
	}
	return domain.EntryID(id), nil
}
