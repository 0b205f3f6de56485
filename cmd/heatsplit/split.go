package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	splitStart string
	splitEnd   string
	splitDaily bool
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Compute the cost split for a date range",
	Long: `Computes the baseline/excess cost split for every stored record in the
requested range and prints each occupant's share. Baseline cost is always
shared 50/50; excess cost follows the occupancy assignments in the config
(first matching interval wins, falling back to default_occupancy).`,
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().StringVar(&splitStart, "start", "", "Range start (YYYY-MM-DD or relative like 30d, required)")
	splitCmd.Flags().StringVar(&splitEnd, "end", "", "Range end (YYYY-MM-DD, required)")
	splitCmd.Flags().BoolVar(&splitDaily, "daily", false, "Print the per-day breakdown table")
	splitCmd.MarkFlagRequired("start")
	splitCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.GetUnitRate() <= 0 {
		return fmt.Errorf("unit_rate must be set in config")
	}

	start, err := parseDate(splitStart)
	if err != nil {
		return fmt.Errorf("parsing --start date: %w", err)
	}
	end, err := parseDate(splitEnd)
	if err != nil {
		return fmt.Errorf("parsing --end date: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	result, err := computePeriod(cfg, db, start, end)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		log.Warnf("%s: %s", w.Date.Format("2006-01-02"), w.Message)
	}

	if result.Totals.DayCount == 0 {
		fmt.Printf("No records between %s and %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
		return nil
	}

	nameA, nameB := cfg.GetOccupantAName(), cfg.GetOccupantBName()

	if splitDaily {
		fmt.Printf("\nDaily breakdown %s..%s:\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
		fmt.Println("--------------------------------------------------------------------------------")
		fmt.Printf("%-12s  %8s  %8s  %8s  %8s  %8s  %-7s\n", "Date", "Actual", "Baseline", "Excess", nameA, nameB, "Who")
		fmt.Println("--------------------------------------------------------------------------------")
		for _, day := range result.Days {
			fmt.Printf("%-12s  %8.2f  %8.2f  %8.2f  %8.2f  %8.2f  %-7s\n",
				day.Date.Format("2006-01-02"), day.ActualCost, day.BaselineCost, day.ExcessCost,
				day.ShareA, day.ShareB, day.Status)
		}
		fmt.Println("--------------------------------------------------------------------------------")
	}

	t := result.Totals
	fmt.Printf("\nPeriod %s..%s (%d days, avg %.1fF):\n",
		start.Format("2006-01-02"), end.Format("2006-01-02"), t.DayCount, t.AvgTemp)
	fmt.Printf("  Usage:    %.2f kWh actual, %.2f kWh baseline, %.2f kWh excess\n",
		t.ActualKWh, t.BaselineKWh, t.ExcessKWh)
	fmt.Printf("  Cost:     %.2f actual = %.2f baseline + %.2f excess\n",
		t.ActualCost, t.BaselineCost, t.ExcessCost)
	fmt.Printf("  %s owes:  %.2f\n", nameA, t.ShareA)
	fmt.Printf("  %s owes:  %.2f\n", nameB, t.ShareB)

	if unallocated := t.ActualCost - t.ShareA - t.ShareB; unallocated > 1e-9 {
		log.Warnf("%.2f of cost is unallocated (excess usage on vacant days)", unallocated)
	}

	return nil
}
