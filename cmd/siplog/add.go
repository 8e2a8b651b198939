package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/siplog/siplog/internal/drink"
)

func newAddCmd() *cobra.Command {
	var (
		date         string
		price        int
		sugar        string
		ice          string
		isEco        bool
		isTreat      bool
		toppingSpecs []string
	)

	cmd := &cobra.Command{
		Use:   "add <shop> <item>",
		Short: "Log a purchased drink",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shop, item := args[0], args[1]

			if price < 0 {
				return fmt.Errorf("price must not be negative")
			}
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			if _, err := time.Parse("2006-01-02", date); err != nil {
				return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
			}

			toppings, err := parseToppings(toppingSpecs)
			if err != nil {
				return err
			}

			ctx := context.Background()
			app, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			prefs := app.Presets.Presets()
			if sugar == "" {
				sugar = prefs.DefaultSugar
			}
			if ice == "" {
				ice = prefs.DefaultIce
			}
			if !drink.ValidSugar(sugar) {
				return fmt.Errorf("invalid sugar %q (valid: %s)", sugar, strings.Join(drink.SugarOptions, ", "))
			}
			if !drink.ValidIce(ice) {
				return fmt.Errorf("invalid ice %q (valid: %s)", ice, strings.Join(drink.IceOptions, ", "))
			}

			record := drink.Record{
				ID:            drink.NextID(),
				Date:          date,
				Shop:          shop,
				Item:          item,
				PriceOriginal: price,
				Toppings:      toppings,
				Sugar:         sugar,
				Ice:           ice,
				IsEco:         isEco,
				IsTreat:       isTreat,
			}
			record.FinalCost = drink.FinalCost(price, toppings, isEco, isTreat)

			if err := app.Records.Add(ctx, record); err != nil {
				return err
			}
			if err := app.Presets.LearnMenu(ctx, shop, item, price); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged #%d: %s / %s, cost %d\n", record.ID, shop, item, record.FinalCost)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Purchase date YYYY-MM-DD (default today)")
	cmd.Flags().IntVarP(&price, "price", "p", 0, "Base price before toppings")
	cmd.Flags().StringVar(&sugar, "sugar", "", "Sugar level (default: preference)")
	cmd.Flags().StringVar(&ice, "ice", "", "Ice level (default: preference)")
	cmd.Flags().BoolVar(&isEco, "eco", false, "Reusable cup (flat discount)")
	cmd.Flags().BoolVar(&isTreat, "treat", false, "Someone else paid")
	cmd.Flags().StringArrayVar(&toppingSpecs, "topping", nil, "Topping as name:price[:count[:attr]], repeatable")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}
