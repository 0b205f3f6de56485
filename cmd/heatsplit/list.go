package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/heatsplit/pkg/models"
)

var (
	listSince string
	listUntil string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored usage records",
	Long:  `Displays stored daily usage records from the database.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSince, "since", "", "Only list records since this date (YYYY-MM-DD or relative like 30d)")
	listCmd.Flags().StringVar(&listUntil, "until", "", "Only list records until this date (YYYY-MM-DD)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	// Open database
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var records []models.DailyRecord
	if listSince != "" || listUntil != "" {
		start, end, err := parseRangeFlags(listSince, listUntil)
		if err != nil {
			return err
		}
		records, err = db.ListRange(start, end)
		if err != nil {
			return fmt.Errorf("listing records: %w", err)
		}
	} else {
		records, err = db.ListAll()
		if err != nil {
			return fmt.Errorf("listing records: %w", err)
		}
	}

	if len(records) == 0 {
		fmt.Println("No records found")
		return nil
	}

	fmt.Println("\nDaily Usage Records:")
	fmt.Println("------------------------------------------------------")
	fmt.Printf("%-12s  %8s  %9s  %8s\n", "Date", "kWh", "Mean Temp", "Cost")
	fmt.Println("------------------------------------------------------")

	var totalKWh, totalCost float64
	for _, rec := range records {
		fmt.Printf("%-12s  %8.2f  %8.1fF  %8.2f\n", rec.DateKey(), rec.KWh, rec.MeanTemp, rec.Cost)
		totalKWh += rec.KWh
		totalCost += rec.Cost
	}

	fmt.Println("------------------------------------------------------")
	fmt.Printf("Total: %.2f kWh, %.2f (%s records)\n", totalKWh, totalCost, humanize.Comma(int64(len(records))))

	return nil
}
