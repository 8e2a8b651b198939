package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siplog/siplog/internal/backup"
	"github.com/siplog/siplog/internal/config"
)

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Upload a snapshot to the backup proxy",
		Long:  "Backup uploads the full local snapshot and prints the generated access key. Keep the key: it is the only way to restore the snapshot on another machine.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			app, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			client := backup.NewClient(config.ProxyURL())
			result := client.Backup(ctx, app.Sync().ExportSnapshot())
			if !result.Ok() {
				return fmt.Errorf("backup failed: %s", result.Message)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Backup stored. Access key: %s\n", result.Key)
			return nil
		},
	}
}
