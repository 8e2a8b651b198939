package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siplog/siplog/internal/drink"
	"github.com/siplog/siplog/internal/store"
)

func newPrefsCmd() *cobra.Command {
	var (
		sugar string
		ice   string
		theme int
	)

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change default preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			app, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			changed := false

			if cmd.Flags().Changed("sugar") || cmd.Flags().Changed("ice") {
				update := store.PresetUpdate{}
				if cmd.Flags().Changed("sugar") {
					if !drink.ValidSugar(sugar) {
						return fmt.Errorf("invalid sugar %q (valid: %s)", sugar, strings.Join(drink.SugarOptions, ", "))
					}
					update.DefaultSugar = &sugar
				}
				if cmd.Flags().Changed("ice") {
					if !drink.ValidIce(ice) {
						return fmt.Errorf("invalid ice %q (valid: %s)", ice, strings.Join(drink.IceOptions, ", "))
					}
					update.DefaultIce = &ice
				}
				if err := app.Presets.UpdatePresets(ctx, update); err != nil {
					return err
				}
				changed = true
			}

			if cmd.Flags().Changed("theme") {
				if theme < 0 {
					return fmt.Errorf("theme index must not be negative")
				}
				settings := app.Settings.Settings()
				settings.ThemeIndex = theme
				if err := app.Settings.Save(ctx, settings); err != nil {
					return err
				}
				changed = true
			}

			prefs := app.Presets.Presets()
			settings := app.Settings.Settings()
			if changed {
				fmt.Fprintln(cmd.OutOrStdout(), "Preferences updated")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sugar: %s   Ice: %s   Theme: %d\n", prefs.DefaultSugar, prefs.DefaultIce, settings.ThemeIndex)
			return nil
		},
	}

	cmd.Flags().StringVar(&sugar, "sugar", "", "Default sugar level for new drinks")
	cmd.Flags().StringVar(&ice, "ice", "", "Default ice level for new drinks")
	cmd.Flags().IntVar(&theme, "theme", 0, "Theme index")

	return cmd
}
