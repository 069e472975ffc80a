package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/menube/internal/cli"
	"github.com/aretw0/menube/pkg/adapters/mcp"
	"github.com/aretw0/menube/pkg/ports"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [menu-file]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the menu as an MCP Server, so AI agents can navigate it and run its
items as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		opts := backendOptions(cmd)
		// Stdout carries JSON-RPC: logs stay on stderr.
		opts.LogOutput = os.Stderr
		events := mcp.NewEventLog(mcp.DefaultEventLogSize)
		opts.Publishers = []ports.Publisher{events}

		b, err := cli.NewBackend(opts)
		if err != nil {
			return err
		}
		defer b.Close()

		srv := mcp.NewServer(b.Menu, events, b.Logger)

		switch transport {
		case "stdio":
			b.Logger.Info("starting menube MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ServeSSE(ctx, port)
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
