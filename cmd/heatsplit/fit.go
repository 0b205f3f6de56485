package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/heatsplit/internal/config"
)

var (
	fitStart string
	fitEnd   string
	fitSave  bool
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit the baseline usage model from stored records",
	Long: `Fits a linear baseline-usage-vs-temperature model by least squares over
the records in the reference window. The window comes from --start/--end or
from reference_window in the config file. With --save the fitted model is
written back to the config and used by later split runs.`,
	RunE: runFit,
}

func init() {
	fitCmd.Flags().StringVar(&fitStart, "start", "", "Reference window start (YYYY-MM-DD, default: config reference_window)")
	fitCmd.Flags().StringVar(&fitEnd, "end", "", "Reference window end (YYYY-MM-DD)")
	fitCmd.Flags().BoolVar(&fitSave, "save", false, "Save the fitted model to the config file")
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	startStr, endStr := fitStart, fitEnd
	if startStr == "" {
		startStr = cfg.ReferenceWindow.Start
	}
	if endStr == "" {
		endStr = cfg.ReferenceWindow.End
	}
	if startStr == "" || endStr == "" {
		return fmt.Errorf("no reference window: pass --start/--end or set reference_window in config")
	}

	start, err := parseDate(startStr)
	if err != nil {
		return fmt.Errorf("parsing --start date: %w", err)
	}
	end, err := parseDate(endStr)
	if err != nil {
		return fmt.Errorf("parsing --end date: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	model, err := fitWindow(db, start, end)
	if err != nil {
		return err
	}

	fmt.Printf("Fitted model over %s..%s:\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Printf("  intercept: %.4f kWh\n", model.Intercept)
	fmt.Printf("  slope:     %.4f kWh/F\n", model.Slope)

	if model.Slope >= 0 {
		log.Warn("slope is non-negative; heating usage normally falls as temperature rises, check the reference window")
	}

	if fitSave {
		cfg.Model = &model
		cfg.ReferenceWindow = config.Window{
			Start: start.Format("2006-01-02"),
			End:   end.Format("2006-01-02"),
		}
		if err := saveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("✓ Model saved to %s\n", getConfigPath())
	}

	return nil
}
