package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgoulah/heatsplit/internal/exporter"
)

var (
	exportStart  string
	exportEnd    string
	exportOut    string
	exportSplits bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records or computed splits as CSV",
	Long: `Writes stored daily records (or, with --splits, the computed cost split
for the range) as CSV sorted by date ascending.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportStart, "start", "", "Range start (YYYY-MM-DD, default: everything)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "Range end (YYYY-MM-DD)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportSplits, "splits", false, "Export the computed daily cost splits instead of raw records")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	out := os.Stdout
	if exportOut != "" {
		out, err = os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer out.Close()
	}

	start, end, err := parseRangeFlags(exportStart, exportEnd)
	if err != nil {
		return err
	}

	if exportSplits {
		if exportStart == "" || exportEnd == "" {
			return fmt.Errorf("--splits requires --start and --end")
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cfg.GetUnitRate() <= 0 {
			return fmt.Errorf("unit_rate must be set in config")
		}

		result, err := computePeriod(cfg, db, start, end)
		if err != nil {
			return err
		}
		for _, w := range result.Warnings {
			log.Warnf("%s: %s", w.Date.Format("2006-01-02"), w.Message)
		}

		if err := exporter.WriteSplits(out, result.Days); err != nil {
			return fmt.Errorf("exporting splits: %w", err)
		}
		if exportOut != "" {
			fmt.Fprintf(os.Stderr, "✓ Exported %d split rows to %s\n", len(result.Days), exportOut)
		}
		return nil
	}

	records, err := db.ListRange(start, end)
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	if err := exporter.WriteRecords(out, records); err != nil {
		return fmt.Errorf("exporting records: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "✓ Exported %d records to %s\n", len(records), exportOut)
	}
	return nil
}
