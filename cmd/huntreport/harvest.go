package main

import (
	"github.com/spf13/cobra"

	"github.com/a3tai/huntreport/internal/config"
	"github.com/a3tai/huntreport/internal/pdf"
)

var harvestOut string

var harvestCmd = &cobra.Command{
	Use:   "harvest [file...]",
	Short: "Extract archery rows from harvest reports",
	Long: "Reads each harvest report (every harvest report under --dir when no files are given), " +
		"keeps the 8-number rows of the subtable that starts at --anchor, and writes one combined CSV table.",
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().StringVar(&harvestOut, "name", "harvest.csv", "Output file name inside --out")
	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	a, err := newApp(config.ModeCLI)
	if err != nil {
		return err
	}

	jobs, err := a.jobs(pdf.KindHarvest, args)
	if err != nil {
		return err
	}
	return a.extract(contextOrBackground(cmd.Context()), pdf.KindHarvest, jobs, harvestOut)
}
