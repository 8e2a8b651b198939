package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siplog/siplog/internal/config"
	"github.com/siplog/siplog/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the backup proxy server",
		Long:  "Serve runs the HTTP proxy that relays backup and restore calls to the remote store configured via SIPLOG_REMOTE_URL.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			remote := config.RemoteURL()
			if remote == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: SIPLOG_REMOTE_URL is not set; backup calls will fail")
			}
			if addr == "" {
				addr = config.ListenAddr()
			}

			return server.New(remote).Start(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default $SIPLOG_ADDR or "+config.DefaultListenAddr+")")

	return cmd
}
