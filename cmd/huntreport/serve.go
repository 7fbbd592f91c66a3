package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a3tai/huntreport/internal/config"
	"github.com/a3tai/huntreport/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report extractors as MCP tools over stdio",
	Long: "Starts an MCP server on standard input and output. Logs go to stderr and are " +
		"limited to warnings unless --log-level=debug.",
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(config.ModeStdio)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(a.cfg, a.service, a.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}
