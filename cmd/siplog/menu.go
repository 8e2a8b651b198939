package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/siplog/siplog/internal/drink"
	"github.com/siplog/siplog/internal/store"
)

func newMenuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Manage remembered shops and menus",
	}

	cmd.AddCommand(newMenuListCmd())
	cmd.AddCommand(newMenuAddShopCmd())
	cmd.AddCommand(newMenuDeleteShopCmd())
	cmd.AddCommand(newMenuSetCmd())
	cmd.AddCommand(newMenuRemoveItemCmd())
	cmd.AddCommand(newMenuToppingsCmd())
	cmd.AddCommand(newMenuAddToppingCmd())

	return cmd
}

func newMenuListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [shop]",
		Short: "Show remembered shops, or one shop's menu",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			prefs := app.Presets.Presets()

			if len(args) == 1 {
				shop := args[0]
				items, ok := prefs.Menus[shop]
				if !ok {
					return fmt.Errorf("shop %q not found", shop)
				}
				outputMenuItems(cmd, shop, items)
				return nil
			}

			shops := make([]string, 0, len(prefs.Menus))
			for shop := range prefs.Menus {
				shops = append(shops, shop)
			}
			sort.Strings(shops)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Shop", "Items"})
			for _, shop := range shops {
				t.AppendRow(table.Row{shop, len(prefs.Menus[shop])})
			}
			t.Render()
			return nil
		},
	}
}

func outputMenuItems(cmd *cobra.Command, shop string, items []drink.MenuItem) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle(shop)
	t.AppendHeader(table.Row{"Item", "Price"})
	for _, item := range items {
		t.AppendRow(table.Row{item.Name, item.Price})
	}
	t.Render()
}

func newMenuAddShopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-shop <shop>",
		Short: "Remember a shop with an empty menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Presets.AddShop(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added shop %q\n", args[0])
			return nil
		},
	}
}

func newMenuDeleteShopCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete-shop <shop>",
		Short: "Forget a shop and its menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shop := args[0]

			if !force {
				ok, err := confirm(cmd, fmt.Sprintf("Forget shop %q and its menu? (y/N) ", shop))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			ctx := context.Background()
			app, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Presets.DeleteShop(ctx, shop); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted shop %q\n", shop)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func newMenuSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <shop> <item>:<price> [<item>:<price>...]",
		Short: "Replace a shop's menu",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shop := args[0]

			items := make([]drink.MenuItem, 0, len(args)-1)
			for _, spec := range args[1:] {
				idx := strings.LastIndex(spec, ":")
				if idx <= 0 || idx == len(spec)-1 {
					return fmt.Errorf("invalid menu item %q (expected name:price)", spec)
				}
				price, err := strconv.Atoi(spec[idx+1:])
				if err != nil || price < 0 {
					return fmt.Errorf("invalid price in %q", spec)
				}
				items = append(items, drink.MenuItem{Name: spec[:idx], Price: price})
			}

			ctx := context.Background()
			app, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Presets.UpdateShopItems(ctx, shop, items); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %d items for shop %q\n", len(items), shop)
			return nil
		},
	}
}

func newMenuRemoveItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-item <shop> <item>",
		Short: "Remove one item from a shop's menu",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shop, item := args[0], args[1]

			ctx := context.Background()
			app, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			prefs := app.Presets.Presets()
			items, ok := prefs.Menus[shop]
			if !ok {
				return fmt.Errorf("shop %q not found", shop)
			}

			kept := make([]drink.MenuItem, 0, len(items))
			removed := false
			for _, m := range items {
				if m.Name == item {
					removed = true
					continue
				}
				kept = append(kept, m)
			}
			if !removed {
				return fmt.Errorf("item %q not found in shop %q", item, shop)
			}

			if err := app.Presets.UpdateShopItems(ctx, shop, kept); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from shop %q\n", item, shop)
			return nil
		},
	}
}

func newMenuToppingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toppings",
		Short: "Show the topping catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			app, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			prefs := app.Presets.Presets()

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Topping", "Price"})
			for _, tp := range prefs.Toppings {
				t.AppendRow(table.Row{tp.Name, tp.Price})
			}
			t.Render()
			return nil
		},
	}
}

func newMenuAddToppingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-topping <name>:<price>",
		Short: "Add a topping to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := args[0]
			idx := strings.LastIndex(spec, ":")
			if idx <= 0 || idx == len(spec)-1 {
				return fmt.Errorf("invalid topping %q (expected name:price)", spec)
			}
			price, err := strconv.Atoi(spec[idx+1:])
			if err != nil || price < 0 {
				return fmt.Errorf("invalid price in %q", spec)
			}
			name := spec[:idx]

			ctx := context.Background()
			app, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			prefs := app.Presets.Presets()
			for _, tp := range prefs.Toppings {
				if tp.Name == name {
					return fmt.Errorf("topping %q already exists", name)
				}
			}

			toppings := append(prefs.Toppings, drink.MenuItem{Name: name, Price: price})
			if err := app.Presets.UpdatePresets(ctx, store.PresetUpdate{Toppings: toppings}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added topping %q (price %d)\n", name, price)
			return nil
		},
	}
}
