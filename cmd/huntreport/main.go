// Package main provides the huntreport CLI, which turns harvest and draw report
// PDFs into CSV tables and serves the extractors over MCP.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/a3tai/huntreport/internal/config"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

var loader = config.NewLoader()

var rootCmd = &cobra.Command{
	Use:   "huntreport",
	Short: "Recover tables from hunting harvest and draw report PDFs",
	Long: "huntreport reads the text of yearly harvest summaries and draw result recaps, " +
		"reassembles their rows, and writes them as CSV tables (and optionally to PostgreSQL).",
	SilenceUsage: true,
}

func init() {
	loader.DefineFlags(rootCmd.PersistentFlags())
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
