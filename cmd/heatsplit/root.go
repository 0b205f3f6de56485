package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jgoulah/heatsplit/internal/config"
	"github.com/jgoulah/heatsplit/internal/database"
	"github.com/jgoulah/heatsplit/internal/engine"
)

var (
	cfgFile string
	dbPath  string
	verbose bool

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "heatsplit",
	Short: "Split a shared heating bill fairly between two housemates",
	Long: `Heatsplit imports daily electric usage and temperature records, fits a
baseline usage-vs-temperature model over a reference window, and splits each
day's cost into a shared baseline component and an occupancy-allocated excess
component.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "data.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// saveConfig saves the configuration file
func saveConfig(cfg *config.Config) error {
	return config.Save(getConfigPath(), cfg)
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// parseDate parses a date string in either YYYY-MM-DD format or relative format (e.g., "7d")
func parseDate(dateStr string) (time.Time, error) {
	// Try absolute date format first
	t, err := time.Parse("2006-01-02", dateStr)
	if err == nil {
		return t, nil
	}

	// Try relative format (e.g., "7d" for 7 days ago)
	if len(dateStr) > 1 && dateStr[len(dateStr)-1] == 'd' {
		daysStr := dateStr[:len(dateStr)-1]
		var days int
		if _, err := fmt.Sscanf(daysStr, "%d", &days); err == nil {
			now := time.Now().UTC()
			midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			return midnight.AddDate(0, 0, -days), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD or Nd for N days ago)", dateStr)
}

// parseRangeFlags parses since/until style flags into an inclusive range.
// A missing since opens the range at the epoch, a missing until closes it today.
func parseRangeFlags(sinceStr, untilStr string) (time.Time, time.Time, error) {
	start := time.Unix(0, 0).UTC()
	if sinceStr != "" {
		var err error
		start, err = parseDate(sinceStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing --since date: %w", err)
		}
	}

	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if untilStr != "" {
		var err error
		end, err = parseDate(untilStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing --until date: %w", err)
		}
	}

	return start, end, nil
}

// resolveModel returns the baseline model to compute with: the fixed model
// from config when present, otherwise a fresh fit over the configured
// reference window
func resolveModel(cfg *config.Config, db *database.DB) (engine.LinearModel, error) {
	if cfg.Model != nil {
		return *cfg.Model, nil
	}

	if cfg.ReferenceWindow.Start == "" || cfg.ReferenceWindow.End == "" {
		return engine.LinearModel{}, fmt.Errorf("no model in config and no reference_window to fit one from; run 'heatsplit fit --save' or set reference_window")
	}

	return fitReferenceWindow(cfg, db)
}

// fitReferenceWindow fits the baseline model over the config's reference window
func fitReferenceWindow(cfg *config.Config, db *database.DB) (engine.LinearModel, error) {
	start, err := parseDate(cfg.ReferenceWindow.Start)
	if err != nil {
		return engine.LinearModel{}, fmt.Errorf("parsing reference_window start: %w", err)
	}
	end, err := parseDate(cfg.ReferenceWindow.End)
	if err != nil {
		return engine.LinearModel{}, fmt.Errorf("parsing reference_window end: %w", err)
	}

	return fitWindow(db, start, end)
}

// computePeriod runs the period aggregation for [start, end] using the
// config's model, rate, bounds, and occupancy assignments
func computePeriod(cfg *config.Config, db *database.DB, start, end time.Time) (*engine.PeriodResult, error) {
	model, err := resolveModel(cfg, db)
	if err != nil {
		return nil, err
	}
	log.Debugf("baseline model: intercept=%.4f slope=%.4f", model.Intercept, model.Slope)

	splitter, err := engine.NewSplitter(model, cfg.GetBounds(), cfg.GetUnitRate())
	if err != nil {
		return nil, err
	}

	records, err := db.ListRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	return splitter.Aggregate(records, start, end, cfg.Occupancy, cfg.GetDefaultOccupancy(), cfg.GetMaxRangeSpanDays())
}

// fitWindow fits the baseline model over stored records in [start, end]
func fitWindow(db *database.DB, start, end time.Time) (engine.LinearModel, error) {
	records, err := db.ListRange(start, end)
	if err != nil {
		return engine.LinearModel{}, fmt.Errorf("listing records: %w", err)
	}

	obs := make([]engine.Observation, 0, len(records))
	for _, rec := range records {
		obs = append(obs, engine.Observation{Temp: rec.MeanTemp, KWh: rec.KWh})
	}

	model, err := engine.Fit(obs)
	if err != nil {
		return engine.LinearModel{}, fmt.Errorf("fitting model over %s..%s: %w",
			start.Format("2006-01-02"), end.Format("2006-01-02"), err)
	}

	return model, nil
}
