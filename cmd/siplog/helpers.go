package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siplog/siplog/internal/database"
	"github.com/siplog/siplog/internal/drink"
	"github.com/siplog/siplog/internal/store"
	"github.com/siplog/siplog/internal/usecase"
)

// appStores bundles the loaded stores a command works against.
type appStores struct {
	dbCtx    *database.Context
	Records  *store.RecordStore
	Presets  *store.PresetStore
	Settings *store.SettingsStore
}

func openStores(ctx context.Context) (*appStores, error) {
	dbCtx, err := database.CreateDatabase("")
	if err != nil {
		return nil, err
	}

	repo := database.NewSlotRepository(dbCtx)
	app := &appStores{
		dbCtx:    dbCtx,
		Records:  store.NewRecordStore(repo),
		Presets:  store.NewPresetStore(repo),
		Settings: store.NewSettingsStore(repo),
	}

	for _, load := range []func(context.Context) error{app.Records.Load, app.Presets.Load, app.Settings.Load} {
		if err := load(ctx); err != nil {
			_ = database.CloseDatabase(dbCtx)
			return nil, err
		}
	}
	return app, nil
}

func (a *appStores) Close() {
	_ = database.CloseDatabase(a.dbCtx)
}

func (a *appStores) Sync() *usecase.Sync {
	return usecase.NewSync(a.Records, a.Presets, a.Settings)
}

// confirm asks a y/N question on stderr and reads the answer from stdin.
func confirm(cmd *cobra.Command, message string) (bool, error) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Fprint(cmd.ErrOrStderr(), message)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(strings.ToLower(answer)) == "y", nil
}

// parseToppings turns repeated --topping flags of the form
// "name:price[:count[:attr]]" into Topping values.
func parseToppings(specs []string) ([]drink.Topping, error) {
	toppings := make([]drink.Topping, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) < 2 || len(parts) > 4 {
			return nil, fmt.Errorf("invalid topping %q (expected name:price[:count[:attr]])", spec)
		}

		price, err := strconv.Atoi(parts[1])
		if err != nil || price < 0 {
			return nil, fmt.Errorf("invalid topping price in %q", spec)
		}

		t := drink.Topping{Name: parts[0], Price: price, Count: 1, Attr: drink.AttrNormal}
		if len(parts) >= 3 {
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 1 {
				return nil, fmt.Errorf("invalid topping count in %q", spec)
			}
			t.Count = count
		}
		if len(parts) == 4 {
			if !drink.ValidAttr(parts[3]) {
				return nil, fmt.Errorf("invalid topping attr %q (valid: %s)", parts[3], strings.Join(drink.AttrOptions, ", "))
			}
			t.Attr = parts[3]
		}
		toppings = append(toppings, t)
	}
	return toppings, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the siplog version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
