package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/siplog/siplog/internal/drink"
)

func newEditCmd() *cobra.Command {
	var (
		date         string
		shop         string
		item         string
		price        int
		sugar        string
		ice          string
		eco          string
		treat        string
		toppingSpecs []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a logged drink",
		Long:  "Edit replaces the given fields of a record and recomputes its cost. Unset flags keep the stored value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}

			ctx := context.Background()
			app, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			record, ok := app.Records.Get(id)
			if !ok {
				return fmt.Errorf("record %d not found", id)
			}

			if cmd.Flags().Changed("date") {
				if _, err := time.Parse("2006-01-02", date); err != nil {
					return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
				}
				record.Date = date
			}
			if cmd.Flags().Changed("shop") {
				record.Shop = shop
			}
			if cmd.Flags().Changed("item") {
				record.Item = item
			}
			if cmd.Flags().Changed("price") {
				if price < 0 {
					return fmt.Errorf("price must not be negative")
				}
				record.PriceOriginal = price
			}
			if cmd.Flags().Changed("sugar") {
				if !drink.ValidSugar(sugar) {
					return fmt.Errorf("invalid sugar %q (valid: %s)", sugar, strings.Join(drink.SugarOptions, ", "))
				}
				record.Sugar = sugar
			}
			if cmd.Flags().Changed("ice") {
				if !drink.ValidIce(ice) {
					return fmt.Errorf("invalid ice %q (valid: %s)", ice, strings.Join(drink.IceOptions, ", "))
				}
				record.Ice = ice
			}
			if cmd.Flags().Changed("eco") {
				record.IsEco, err = strconv.ParseBool(eco)
				if err != nil {
					return fmt.Errorf("invalid --eco value %q", eco)
				}
			}
			if cmd.Flags().Changed("treat") {
				record.IsTreat, err = strconv.ParseBool(treat)
				if err != nil {
					return fmt.Errorf("invalid --treat value %q", treat)
				}
			}
			if cmd.Flags().Changed("topping") {
				toppings, err := parseToppings(toppingSpecs)
				if err != nil {
					return err
				}
				record.Toppings = toppings
			}

			record.FinalCost = drink.FinalCost(record.PriceOriginal, record.Toppings, record.IsEco, record.IsTreat)

			if err := app.Records.Update(ctx, record); err != nil {
				return err
			}
			if err := app.Presets.LearnMenu(ctx, record.Shop, record.Item, record.PriceOriginal); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d: %s / %s, cost %d\n", record.ID, record.Shop, record.Item, record.FinalCost)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Purchase date YYYY-MM-DD")
	cmd.Flags().StringVar(&shop, "shop", "", "Shop name")
	cmd.Flags().StringVar(&item, "item", "", "Drink name")
	cmd.Flags().IntVarP(&price, "price", "p", 0, "Base price before toppings")
	cmd.Flags().StringVar(&sugar, "sugar", "", "Sugar level")
	cmd.Flags().StringVar(&ice, "ice", "", "Ice level")
	cmd.Flags().StringVar(&eco, "eco", "", "Reusable cup: true or false")
	cmd.Flags().StringVar(&treat, "treat", "", "Someone else paid: true or false")
	cmd.Flags().StringArrayVar(&toppingSpecs, "topping", nil, "Replace toppings with name:price[:count[:attr]], repeatable")

	return cmd
}
