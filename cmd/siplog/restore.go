package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siplog/siplog/internal/backup"
	"github.com/siplog/siplog/internal/config"
)

func newRestoreCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <key>",
		Short: "Fetch a snapshot by access key and merge it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client := backup.NewClient(config.ProxyURL())
			result := client.Restore(ctx, args[0])
			if !result.Ok() {
				return fmt.Errorf("restore failed: %s", result.Message)
			}

			snapshot, err := backup.ParseSnapshot([]byte(result.Data))
			if err != nil {
				return err
			}

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
					fmt.Fprintln(cmd.OutOrStdout(), "Restore cancelled")
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
