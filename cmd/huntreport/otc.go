package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/a3tai/huntreport/internal/config"
	"github.com/a3tai/huntreport/internal/report/otc"
	"github.com/a3tai/huntreport/internal/table"
)

var (
	otcUnitsFrom string
	otcOut       string
)

var otcCmd = &cobra.Command{
	Use:   "otc <lists.hjson>",
	Short: "Build the over-the-counter license table",
	Long: "Reads the over-the-counter GMU lists copied from the brochure and writes one row per GMU. " +
		"The GMU universe is the unit column of --units-from (a harvest CSV) or, without it, every listed GMU.",
	Args: cobra.ExactArgs(1),
	RunE: runOTC,
}

func init() {
	otcCmd.Flags().StringVar(&otcUnitsFrom, "units-from", "", "CSV file whose unit column lists every GMU")
	otcCmd.Flags().StringVar(&otcOut, "name", "otc.csv", "Output file name inside --out")
	rootCmd.AddCommand(otcCmd)
}

func runOTC(cmd *cobra.Command, args []string) error {
	a, err := newApp(config.ModeCLI)
	if err != nil {
		return err
	}

	units, err := readUnits(otcUnitsFrom)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	rows, err := otc.Load(f, units)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	ctx := contextOrBackground(cmd.Context())
	t := table.FromOTC("otc", rows)
	if err := a.writeTable(t, otcOut); err != nil {
		return err
	}
	return a.storeTable(ctx, t)
}

// readUnits returns the unit column of a CSV file, or nil when path is empty
func readUnits(path string) ([]int, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	units, err := table.ReadColumnInts(f, "unit")
	if err != nil {
		return nil, fmt.Errorf("failed to read units from %s: %w", path, err)
	}
	return units, nil
}
