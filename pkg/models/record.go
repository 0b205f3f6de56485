package models

import "time"

// DailyRecord represents a single day's electricity usage and weather
type DailyRecord struct {
	Date     time.Time `json:"date"` // Midnight UTC, unique key
	KWh      float64   `json:"kwh"`
	MeanTemp float64   `json:"mean_temp"` // Degrees F
	MinTemp  float64   `json:"min_temp"`  // Defaults to MeanTemp when not reported
	MaxTemp  float64   `json:"max_temp"`  // Defaults to MeanTemp when not reported
	Cost     float64   `json:"cost"`      // Derived as KWh * rate when the import has no cost column
}

// DateKey returns the record's date formatted as its storage key
func (r DailyRecord) DateKey() string {
	return r.Date.Format("2006-01-02")
}
