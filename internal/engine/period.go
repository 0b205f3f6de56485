package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/jgoulah/heatsplit/pkg/models"
)

// Warning is a non-fatal data-quality note attached to a period result
type Warning struct {
	Date    time.Time
	Message string
}

// PeriodTotals sums the daily splits across a requested range
type PeriodTotals struct {
	BaselineKWh  float64
	BaselineCost float64
	ActualKWh    float64
	ActualCost   float64
	ExcessKWh    float64
	ExcessCost   float64
	ShareA       float64
	ShareB       float64
	AvgTemp      float64
	DayCount     int
}

// PeriodResult is the aggregator's output: per-day splits in ascending date
// order plus period totals and any data-quality warnings
type PeriodResult struct {
	Days     []DailySplit
	Totals   PeriodTotals
	Warnings []Warning
}

// Aggregate runs the daily split over every stored record inside the
// inclusive [start, end] range. Each day resolves to the first occupancy
// assignment whose interval contains it, falling back to the default
// assignment when none matches. Day results are returned in ascending date
// order; callers rely on that for display. An empty filtered set is not an
// error and yields zero totals.
func (s *Splitter) Aggregate(records []models.DailyRecord, start, end time.Time, assignments []Occupancy, defaultOcc Occupancy, maxSpanDays int) (*PeriodResult, error) {
	if start.After(end) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if maxSpanDays > 0 && days > maxSpanDays {
		return nil, &RangeTooLargeError{Days: days, MaxDays: maxSpanDays}
	}

	var inRange []models.DailyRecord
	for _, r := range records {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		inRange = append(inRange, r)
	}
	sort.Slice(inRange, func(i, j int) bool { return inRange[i].Date.Before(inRange[j].Date) })

	result := &PeriodResult{}
	var tempSum float64

	for _, r := range inRange {
		occ := resolveOccupancy(r.Date, assignments, defaultOcc)

		day, err := s.SplitDay(r.Date, r.KWh, r.MeanTemp, occ)
		if err != nil {
			return nil, fmt.Errorf("splitting %s: %w", r.DateKey(), err)
		}

		if day.Status == StatusNone && day.ExcessKWh > 0 {
			result.Warnings = append(result.Warnings, Warning{
				Date:    r.Date,
				Message: fmt.Sprintf("%.2f kWh excess usage while nobody was home; cost %.2f left unallocated", day.ExcessKWh, day.ExcessCost),
			})
		}

		result.Days = append(result.Days, day)

		result.Totals.BaselineKWh += day.BaselineKWh
		result.Totals.BaselineCost += day.BaselineCost
		result.Totals.ActualKWh += day.ActualKWh
		result.Totals.ActualCost += day.ActualCost
		result.Totals.ExcessKWh += day.ExcessKWh
		result.Totals.ExcessCost += day.ExcessCost
		result.Totals.ShareA += day.ShareA
		result.Totals.ShareB += day.ShareB
		tempSum += r.MeanTemp
	}

	result.Totals.DayCount = len(result.Days)
	if result.Totals.DayCount > 0 {
		result.Totals.AvgTemp = tempSum / float64(result.Totals.DayCount)
	}

	return result, nil
}

// resolveOccupancy returns the first assignment containing the date.
// Overlaps are not validated, so supplied order decides ties.
func resolveOccupancy(date time.Time, assignments []Occupancy, defaultOcc Occupancy) Occupancy {
	for _, a := range assignments {
		if a.Contains(date) {
			return a
		}
	}
	return defaultOcc
}
