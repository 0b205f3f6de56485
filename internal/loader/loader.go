package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jgoulah/heatsplit/pkg/models"
)

// Temperatures outside this range are almost certainly bad sensor data or
// unit confusion; they import with a warning rather than being rejected.
const (
	saneTempMin = -50
	saneTempMax = 150
)

// Warning is a non-fatal note about an imported row
type Warning struct {
	Line    int
	Message string
}

// Result holds the validated records from one import plus any warnings.
// Records are sorted by date ascending with duplicate dates collapsed to
// the last occurrence in the file.
type Result struct {
	Records  []models.DailyRecord
	Warnings []Warning
}

// ReadCSV parses daily usage records from CSV input. The file needs a
// header row with at least date, kwh, and mean_temp columns; min_temp,
// max_temp, and cost columns are optional. A missing mean temperature is
// a hard failure for that file since the engine never estimates one.
func ReadCSV(r io.Reader, rate float64) (*Result, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "kwh", "mean_temp"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	result := &Result{}
	byDate := make(map[string]int) // date key -> index into result.Records
	line := 1

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		line++

		rec, err := parseRow(row, cols, rate)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if rec.MeanTemp < saneTempMin || rec.MeanTemp > saneTempMax {
			result.Warnings = append(result.Warnings, Warning{
				Line:    line,
				Message: fmt.Sprintf("mean temperature %.1fF for %s is outside the plausible range [%d, %d]", rec.MeanTemp, rec.DateKey(), saneTempMin, saneTempMax),
			})
		}

		// Duplicate dates within one import: the later row wins
		if idx, ok := byDate[rec.DateKey()]; ok {
			result.Warnings = append(result.Warnings, Warning{
				Line:    line,
				Message: fmt.Sprintf("duplicate date %s, keeping the later row", rec.DateKey()),
			})
			result.Records[idx] = rec
			continue
		}

		byDate[rec.DateKey()] = len(result.Records)
		result.Records = append(result.Records, rec)
	}

	sort.Slice(result.Records, func(i, j int) bool {
		return result.Records[i].Date.Before(result.Records[j].Date)
	})

	return result, nil
}

func parseRow(row []string, cols map[string]int, rate float64) (models.DailyRecord, error) {
	var rec models.DailyRecord

	dateStr, err := field(row, cols, "date")
	if err != nil {
		return rec, err
	}
	rec.Date, err = time.Parse("2006-01-02", dateStr)
	if err != nil {
		return rec, fmt.Errorf("parsing date %q: %w", dateStr, err)
	}

	kwhStr, err := field(row, cols, "kwh")
	if err != nil {
		return rec, err
	}
	rec.KWh, err = strconv.ParseFloat(kwhStr, 64)
	if err != nil {
		return rec, fmt.Errorf("parsing kwh %q: %w", kwhStr, err)
	}
	if rec.KWh < 0 {
		return rec, fmt.Errorf("kwh %v must be non-negative", rec.KWh)
	}

	tempStr, err := field(row, cols, "mean_temp")
	if err != nil {
		return rec, err
	}
	rec.MeanTemp, err = strconv.ParseFloat(tempStr, 64)
	if err != nil {
		return rec, fmt.Errorf("parsing mean_temp %q: %w", tempStr, err)
	}
	if math.IsNaN(rec.MeanTemp) || math.IsInf(rec.MeanTemp, 0) {
		return rec, fmt.Errorf("mean_temp %v must be finite", rec.MeanTemp)
	}

	rec.MinTemp = rec.MeanTemp
	if s, ok := optionalField(row, cols, "min_temp"); ok {
		rec.MinTemp, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return rec, fmt.Errorf("parsing min_temp %q: %w", s, err)
		}
	}

	rec.MaxTemp = rec.MeanTemp
	if s, ok := optionalField(row, cols, "max_temp"); ok {
		rec.MaxTemp, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return rec, fmt.Errorf("parsing max_temp %q: %w", s, err)
		}
	}

	rec.Cost = rec.KWh * rate
	if s, ok := optionalField(row, cols, "cost"); ok {
		rec.Cost, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return rec, fmt.Errorf("parsing cost %q: %w", s, err)
		}
	}

	return rec, nil
}

func field(row []string, cols map[string]int, name string) (string, error) {
	idx := cols[name]
	if idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
		return "", fmt.Errorf("missing required field %q", name)
	}
	return strings.TrimSpace(row[idx]), nil
}

func optionalField(row []string, cols map[string]int, name string) (string, bool) {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return "", false
	}
	s := strings.TrimSpace(row[idx])
	if s == "" {
		return "", false
	}
	return s, true
}
