package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/heatsplit/internal/publisher"
)

var (
	publishStart string
	publishEnd   string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish computed period totals to MQTT / Home Assistant",
	Long: `Computes the cost split for the requested range and publishes the period
totals: the full breakdown to MQTT and the period cost to Home Assistant via
HTTP API, depending on what the config enables.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishStart, "start", "", "Range start (YYYY-MM-DD or relative like 30d, required)")
	publishCmd.Flags().StringVar(&publishEnd, "end", "", "Range end (YYYY-MM-DD, required)")
	publishCmd.MarkFlagRequired("start")
	publishCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.MQTT.Enabled && !cfg.HomeAssistant.Enabled {
		return fmt.Errorf("neither MQTT nor Home Assistant is enabled in config")
	}
	if cfg.GetUnitRate() <= 0 {
		return fmt.Errorf("unit_rate must be set in config")
	}

	start, err := parseDate(publishStart)
	if err != nil {
		return fmt.Errorf("parsing --start date: %w", err)
	}
	end, err := parseDate(publishEnd)
	if err != nil {
		return fmt.Errorf("parsing --end date: %w", err)
	}

	// Create publisher
	pub, err := publisher.New(cfg.MQTT, cfg.GetTopicPrefix(), cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	// Open database
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
		fmt.Printf("No records between %s and %s, nothing to publish\n",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
		return nil
	}

	fmt.Printf("Publishing totals for %s..%s (%d days, %.2f total cost)... ",
		start.Format("2006-01-02"), end.Format("2006-01-02"),
		result.Totals.DayCount, result.Totals.ActualCost)

	if err := pub.PublishTotals(start, end, result.Totals); err != nil {
		fmt.Printf("FAILED\n")
		return fmt.Errorf("publishing totals: %w", err)
	}

	fmt.Printf("✓\n")
	return nil
}
