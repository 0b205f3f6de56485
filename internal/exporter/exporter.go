package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/jgoulah/heatsplit/internal/engine"
	"github.com/jgoulah/heatsplit/pkg/models"
)

// WriteRecords writes daily records as CSV, one row per date, sorted by date
// ascending, with the same columns the importer accepts
func WriteRecords(w io.Writer, records []models.DailyRecord) error {
	sorted := make([]models.DailyRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "kwh", "mean_temp", "min_temp", "max_temp", "cost"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, rec := range sorted {
		row := []string{
			rec.DateKey(),
			fmt.Sprintf("%.2f", rec.KWh),
			fmt.Sprintf("%.1f", rec.MeanTemp),
			fmt.Sprintf("%.1f", rec.MinTemp),
			fmt.Sprintf("%.1f", rec.MaxTemp),
			fmt.Sprintf("%.2f", rec.Cost),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record %s: %w", rec.DateKey(), err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSplits writes computed daily splits as CSV, sorted by date ascending
func WriteSplits(w io.Writer, days []engine.DailySplit) error {
	sorted := make([]engine.DailySplit, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	cw := csv.NewWriter(w)

	header := []string{
		"date", "baseline_kwh", "baseline_cost", "actual_kwh", "actual_cost",
		"excess_kwh", "excess_cost", "share_a", "share_b", "occupancy",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, day := range sorted {
		row := []string{
			day.Date.Format("2006-01-02"),
			fmt.Sprintf("%.2f", day.BaselineKWh),
			fmt.Sprintf("%.2f", day.BaselineCost),
			fmt.Sprintf("%.2f", day.ActualKWh),
			fmt.Sprintf("%.2f", day.ActualCost),
			fmt.Sprintf("%.2f", day.ExcessKWh),
			fmt.Sprintf("%.2f", day.ExcessCost),
			fmt.Sprintf("%.2f", day.ShareA),
			fmt.Sprintf("%.2f", day.ShareB),
			string(day.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing split %s: %w", day.Date.Format("2006-01-02"), err)
		}
	}

	cw.Flush()
	return cw.Error()
}
