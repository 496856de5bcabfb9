package main

import (
	"os"
	"os/signal"
	"syscall"

	tracetm "github.com/irobinett3/traceTM-iansntm"
	"github.com/irobinett3/traceTM-iansntm/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol server",
	Long:  `Serves the list_machines, trace_machine, get_result and get_graph tools over stdio, or over SSE when a port is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cfg, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		port := cfg.MCP.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		srv := mcp.NewServer(app.Engine, tracetm.Version, mcp.WithLogger(app.Logger))
		if port == 0 {
			return srv.ServeStdio()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ServeSSE(ctx, port)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().IntP("port", "p", 0, "Serve SSE on this port instead of stdio")
}
