package main

import (
	"github.com/spf13/cobra"

	"github.com/a3tai/huntreport/internal/config"
	"github.com/a3tai/huntreport/internal/pdf"
)

var drawOut string

var drawCmd = &cobra.Command{
	Use:   "draw [file...]",
	Short: "Reassemble hunt-code records from draw result reports",
	Long: "Reads each draw results report (every draw report under --dir when no files are given), " +
		"reassembles one record per hunt code and writes one combined CSV table. Repairs made to " +
		"records torn across pages are logged as warnings; a document whose layout is not recognized " +
		"is rejected without affecting the others.",
	RunE: runDraw,
}

func init() {
	drawCmd.Flags().StringVar(&drawOut, "name", "draw.csv", "Output file name inside --out")
	rootCmd.AddCommand(drawCmd)
}

func runDraw(cmd *cobra.Command, args []string) error {
	a, err := newApp(config.ModeCLI)
	if err != nil {
		return err
	}

	jobs, err := a.jobs(pdf.KindDraw, args)
	if err != nil {
		return err
	}
	return a.extract(contextOrBackground(cmd.Context()), pdf.KindDraw, jobs, drawOut)
}
