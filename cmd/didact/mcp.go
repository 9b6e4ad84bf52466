package main

import (
	"github.com/spf13/cobra"

	"github.com/didactlabs/didact/engine"
	"github.com/didactlabs/didact/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the workflow as an MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := newGateway()
			if err != nil {
				return err
			}
			registry := mcp.NewRegistry(func() *engine.Engine {
				return newEngine(gw)
			})
			log.Info("serving MCP over stdio", "model", gw.Model().String())
			return mcp.ServeStdio(registry, mcp.WithName("didact"))
		},
	}
}
