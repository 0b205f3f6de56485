package engine

import (
	"fmt"
	"time"
)

// DegenerateInputError is returned when a regression fit has no temperature
// variance to work with (including the empty and single-observation cases)
type DegenerateInputError struct {
	Observations int
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate fit input: %d observations with zero temperature variance", e.Observations)
}

// ValidationError reports a rejected input value with the constraint it violated
type ValidationError struct {
	Field      string
	Value      float64
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Constraint)
}

// InvalidRangeError is returned when a requested date range ends before it starts
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %s is after end %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// RangeTooLargeError is returned when a requested date range exceeds the
// configured maximum span
type RangeTooLargeError struct {
	Days    int
	MaxDays int
}

func (e *RangeTooLargeError) Error() string {
	return fmt.Sprintf("range spans %d days, maximum is %d", e.Days, e.MaxDays)
}
