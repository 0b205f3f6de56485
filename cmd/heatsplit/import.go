package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jgoulah/heatsplit/internal/loader"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import daily usage records from a CSV file",
	Long: `Reads daily usage/temperature records from a CSV export and stores them
in the local SQLite database. The file needs date, kwh, and mean_temp columns;
min_temp, max_temp, and cost are optional. Re-importing a date replaces the
stored record (last write wins).`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	result, err := loader.ReadCSV(f, cfg.GetUnitRate())
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	for _, w := range result.Warnings {
		log.Warnf("line %d: %s", w.Line, w.Message)
	}

	if len(result.Records) == 0 {
		fmt.Println("No records found")
		return nil
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	bar := progressbar.Default(int64(len(result.Records)), "importing")
	for i := range result.Records {
		if err := db.UpsertRecord(&result.Records[i]); err != nil {
			return fmt.Errorf("storing record %s: %w", result.Records[i].DateKey(), err)
		}
		bar.Add(1)
	}

	total, err := db.Count()
	if err != nil {
		return fmt.Errorf("counting records: %w", err)
	}

	fmt.Printf("✓ Imported %s records (%s total in database)\n",
		humanize.Comma(int64(len(result.Records))), humanize.Comma(int64(total)))
	return nil
}
