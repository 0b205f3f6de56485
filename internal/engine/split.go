package engine

import (
	"time"
)

// Controller identifies which occupant runs the thermostat
type Controller string

const (
	ControllerA Controller = "a"
	ControllerB Controller = "b"
)

// Occupancy states who was home and who controlled the heat for a closed
// date interval. Intervals are caller-supplied and not checked for overlap;
// when two overlap, the first one in the supplied list wins.
type Occupancy struct {
	Start      time.Time  `yaml:"start"`
	End        time.Time  `yaml:"end"`
	APresent   bool       `yaml:"a_present"`
	BPresent   bool       `yaml:"b_present"`
	Controller Controller `yaml:"controller"`
}

// Contains reports whether the given date falls inside the assignment's
// inclusive interval
func (o Occupancy) Contains(date time.Time) bool {
	return !date.Before(o.Start) && !date.After(o.End)
}

// OccupancyStatus summarizes who was present on a day
type OccupancyStatus string

const (
	StatusBoth  OccupancyStatus = "both"
	StatusAOnly OccupancyStatus = "a_only"
	StatusBOnly OccupancyStatus = "b_only"
	StatusNone  OccupancyStatus = "none"
)

func statusOf(o Occupancy) OccupancyStatus {
	switch {
	case o.APresent && o.BPresent:
		return StatusBoth
	case o.APresent:
		return StatusAOnly
	case o.BPresent:
		return StatusBOnly
	default:
		return StatusNone
	}
}

// DailySplit is the computed baseline/excess decomposition of one day's cost
type DailySplit struct {
	Date         time.Time
	BaselineKWh  float64
	BaselineCost float64
	ActualKWh    float64
	ActualCost   float64
	ExcessKWh    float64 // May be negative on an efficient day
	ExcessCost   float64
	ShareA       float64
	ShareB       float64
	Status       OccupancyStatus
}

// splitKey identifies one memoizable computation; the date is display-only
// and deliberately not part of the key
type splitKey struct {
	kwh        float64
	temp       float64
	aPresent   bool
	bPresent   bool
	controller Controller
}

// Splitter computes daily cost splits against one immutable model, clamp
// bounds, and unit rate. Results are memoized since interactive callers
// recompute the same days over and over.
type Splitter struct {
	model  LinearModel
	bounds Bounds
	rate   float64
	memo   map[splitKey]DailySplit
}

// NewSplitter creates a splitter for the given model and rate
func NewSplitter(model LinearModel, bounds Bounds, rate float64) (*Splitter, error) {
	if rate <= 0 {
		return nil, &ValidationError{Field: "unit rate", Value: rate, Constraint: "must be positive"}
	}
	return &Splitter{
		model:  model,
		bounds: bounds,
		rate:   rate,
		memo:   make(map[splitKey]DailySplit),
	}, nil
}

// SplitDay decomposes one day's actual cost into baseline and excess
// components and allocates the two occupants' shares.
//
// Baseline cost is always shared 50/50: heating to the baseline is a shared
// necessity even when one occupant is away. A negative excess is a shared
// saving and splits the whole (reduced) actual cost evenly instead. A
// non-negative excess goes to the thermostat controller when both are
// present, to the sole present occupant otherwise, and to nobody when the
// place was empty; that last case leaves the excess cost unallocated on
// purpose (see Aggregate, which flags it as a data-quality warning).
func (s *Splitter) SplitDay(date time.Time, kwh, temp float64, occ Occupancy) (DailySplit, error) {
	if kwh < 0 {
		return DailySplit{}, &ValidationError{Field: "usage", Value: kwh, Constraint: "must be non-negative"}
	}

	key := splitKey{kwh: kwh, temp: temp, aPresent: occ.APresent, bPresent: occ.BPresent, controller: occ.Controller}
	if cached, ok := s.memo[key]; ok {
		cached.Date = date
		return cached, nil
	}

	baselineKWh, err := s.model.Predict(temp, s.bounds)
	if err != nil {
		return DailySplit{}, err
	}

	result := DailySplit{
		BaselineKWh:  baselineKWh,
		BaselineCost: baselineKWh * s.rate,
		ActualKWh:    kwh,
		ActualCost:   kwh * s.rate,
		ExcessKWh:    kwh - baselineKWh,
		Status:       statusOf(occ),
	}
	result.ExcessCost = result.ExcessKWh * s.rate

	if result.ExcessKWh < 0 {
		// Efficient day: the saving is shared, occupancy does not apply
		result.ShareA = result.ActualCost / 2
		result.ShareB = result.ActualCost / 2
	} else {
		half := result.BaselineCost / 2
		result.ShareA = half
		result.ShareB = half

		switch {
		case occ.APresent && occ.BPresent:
			if occ.Controller == ControllerA {
				result.ShareA += result.ExcessCost
			} else {
				result.ShareB += result.ExcessCost
			}
		case occ.APresent:
			result.ShareA += result.ExcessCost
		case occ.BPresent:
			result.ShareB += result.ExcessCost
		default:
			// Nobody home: excess stays unallocated
		}
	}

	s.memo[key] = result
	result.Date = date
	return result, nil
}
