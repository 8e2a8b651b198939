package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/siplog/siplog/internal/backup"
	"github.com/siplog/siplog/internal/merge"
)

func newImportCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a JSON snapshot into local data",
		Long:  "Import parses a snapshot file, previews the merge and applies it. Local records always win over incoming ones with the same id. Pass - to read from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read snapshot: %w", err)
			}

			snapshot, err := backup.ParseSnapshot(data)
			if err != nil {
				return err
			}

			ctx := context.Background()
			app, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			sync := app.Sync()
			stats := sync.Preview(snapshot)
			printMergePreview(cmd, stats)

			if !force {
				ok, err := confirm(cmd, "Apply this merge? (y/N) ")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
					return nil
				}
			}

			if _, err := sync.Commit(ctx, snapshot); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged %d new records\n", stats.NewRecords)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Apply without confirmation")

	return cmd
}

func printMergePreview(cmd *cobra.Command, stats merge.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Incoming records: %d (%d new, %d already local)\n",
		stats.TotalIncoming, stats.NewRecords, stats.Conflicts)
	if stats.DateFrom != "" {
		fmt.Fprintf(out, "Date span: %s .. %s\n", stats.DateFrom, stats.DateTo)
	}
	if len(stats.NewShops) > 0 {
		fmt.Fprintf(out, "New shops: %v\n", stats.NewShops)
	}
	if len(stats.NewToppings) > 0 {
		fmt.Fprintf(out, "New toppings: %v\n", stats.NewToppings)
	}
}
