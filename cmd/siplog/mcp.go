package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/siplog/siplog/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server, err := mcp.NewServer()
			if err != nil {
				return err
			}
			return server.Run(context.Background())
		},
	}
}
