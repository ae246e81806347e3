package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mj1618/weel/internal/config"
	"github.com/mj1618/weel/internal/server"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing the deck as tools",
	Long: `Start a Model Context Protocol (MCP) server so AI agents can press
buttons, run actions and switch profiles and pages.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  weel mcp
  weel mcp --transport streamable-http --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", config.TransportStdio, "Transport: stdio, streamable-http")
	mcpCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Unset flags fall back to the config file, except a transport of none.
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	if !cmd.Flags().Changed("transport") && cfg.MCP.Transport != config.TransportNone {
		transport = cfg.MCP.Transport
	}
	if !cmd.Flags().Changed("port") {
		port = cfg.MCP.Port
	}

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()
	return server.New(sess.deck, logger).Serve(ctx, transport, port)
}
