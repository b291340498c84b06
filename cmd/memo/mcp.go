package main

import (
	"github.com/spf13/cobra"

	"voice-memo-go/internal/mcptools"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve classify/resolve as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.log.WithField("queue_dir", a.cfg.QueueDir).Info("serving MCP tools on stdio")
			return mcptools.ServeStdio(version, &mcptools.Tools{QueueDir: a.cfg.QueueDir, Log: a.log})
		},
	}
}
