package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testModel  = LinearModel{Intercept: 50.75, Slope: -0.888}
	testBounds = Bounds{MinKWh: 5, MaxKWh: 60}
	testRate   = 0.2061
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestSplitter(t *testing.T) *Splitter {
	t.Helper()
	s, err := NewSplitter(testModel, testBounds, testRate)
	require.NoError(t, err)
	return s
}

func TestNewSplitter_RejectsNonPositiveRate(t *testing.T) {
	_, err := NewSplitter(testModel, testBounds, 0)

	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "unit rate", validation.Field)
}

func TestSplitDay_ExcessGoesToController(t *testing.T) {
	// At 30F the model predicts 24.11 kWh baseline. 51 kWh actual leaves
	// 26.89 kWh excess, all of it on B's tab since B runs the thermostat.
	s := newTestSplitter(t)
	occ := Occupancy{APresent: true, BPresent: true, Controller: ControllerB}

	result, err := s.SplitDay(day(2026, 1, 15), 51, 30, occ)
	require.NoError(t, err)

	assert.InDelta(t, 24.11, result.BaselineKWh, 1e-9)
	assert.InDelta(t, 24.11*testRate, result.BaselineCost, 1e-9)
	assert.InDelta(t, 26.89, result.ExcessKWh, 1e-9)
	assert.InDelta(t, 26.89*testRate, result.ExcessCost, 1e-9)
	assert.InDelta(t, 24.11*testRate/2, result.ShareA, 1e-9)
	assert.InDelta(t, 24.11*testRate/2+26.89*testRate, result.ShareB, 1e-9)
	assert.Equal(t, StatusBoth, result.Status)

	assert.InDelta(t, result.ActualCost, result.ShareA+result.ShareB, 1e-9)
}

func TestSplitDay_SavingsDaySplitsEvenly(t *testing.T) {
	// 15 kWh actual against a 24.11 kWh baseline is a shared saving; the
	// controller rule does not apply and each occupant pays half the
	// actual cost.
	s := newTestSplitter(t)
	occ := Occupancy{APresent: true, BPresent: true, Controller: ControllerB}

	result, err := s.SplitDay(day(2026, 1, 16), 15, 30, occ)
	require.NoError(t, err)

	assert.Less(t, result.ExcessKWh, 0.0)
	assert.InDelta(t, 1.54575, result.ShareA, 1e-9)
	assert.InDelta(t, 1.54575, result.ShareB, 1e-9)
	assert.InDelta(t, result.ActualCost, result.ShareA+result.ShareB, 1e-9)
}

func TestSplitDay_SavingsIgnoresOccupancy(t *testing.T) {
	s := newTestSplitter(t)

	solo, err := s.SplitDay(day(2026, 1, 17), 10, 30, Occupancy{APresent: true, Controller: ControllerA})
	require.NoError(t, err)

	assert.InDelta(t, solo.ActualCost/2, solo.ShareA, 1e-9)
	assert.InDelta(t, solo.ActualCost/2, solo.ShareB, 1e-9)
}

func TestSplitDay_SoleOccupantTakesExcess(t *testing.T) {
	// Controller says B, but B was away; the excess follows presence
	s := newTestSplitter(t)
	occ := Occupancy{APresent: true, BPresent: false, Controller: ControllerB}

	result, err := s.SplitDay(day(2026, 1, 18), 40, 30, occ)
	require.NoError(t, err)

	assert.Equal(t, StatusAOnly, result.Status)
	assert.InDelta(t, result.BaselineCost/2+result.ExcessCost, result.ShareA, 1e-9)
	assert.InDelta(t, result.BaselineCost/2, result.ShareB, 1e-9)
	assert.InDelta(t, result.ActualCost, result.ShareA+result.ShareB, 1e-9)
}

func TestSplitDay_NobodyHomeLeavesExcessUnallocated(t *testing.T) {
	// Deliberate divergence from cost conservation: vacant-day excess is
	// reported but billed to nobody, so the shares sum to baseline only.
	s := newTestSplitter(t)
	occ := Occupancy{Controller: ControllerA}

	result, err := s.SplitDay(day(2026, 1, 19), 40, 30, occ)
	require.NoError(t, err)

	assert.Equal(t, StatusNone, result.Status)
	assert.Greater(t, result.ExcessCost, 0.0)
	assert.InDelta(t, result.BaselineCost/2, result.ShareA, 1e-9)
	assert.InDelta(t, result.BaselineCost/2, result.ShareB, 1e-9)
	assert.InDelta(t, result.BaselineCost, result.ShareA+result.ShareB, 1e-9)
}

func TestSplitDay_CostConservationAcrossOccupancies(t *testing.T) {
	s := newTestSplitter(t)

	occupancies := []Occupancy{
		{APresent: true, BPresent: true, Controller: ControllerA},
		{APresent: true, BPresent: true, Controller: ControllerB},
		{APresent: true, Controller: ControllerB},
		{BPresent: true, Controller: ControllerA},
	}
	usages := []float64{0, 5, 15, 24.11, 30, 51, 80}
	temps := []float64{-10, 0, 30, 55, 75}

	for _, occ := range occupancies {
		for _, kwh := range usages {
			for _, temp := range temps {
				result, err := s.SplitDay(day(2026, 2, 1), kwh, temp, occ)
				require.NoError(t, err)
				assert.InDelta(t, result.ActualCost, result.ShareA+result.ShareB, 1e-9,
					"kwh=%v temp=%v occ=%+v", kwh, temp, occ)
				assert.InDelta(t, result.ActualCost, result.BaselineCost+result.ExcessCost, 1e-9)
			}
		}
	}
}

func TestSplitDay_RejectsNegativeUsage(t *testing.T) {
	s := newTestSplitter(t)

	_, err := s.SplitDay(day(2026, 1, 20), -1, 30, Occupancy{APresent: true, BPresent: true, Controller: ControllerA})

	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "usage", validation.Field)
}

func TestSplitDay_MemoizedResultKeepsCallDate(t *testing.T) {
	s := newTestSplitter(t)
	occ := Occupancy{APresent: true, BPresent: true, Controller: ControllerA}

	first, err := s.SplitDay(day(2026, 1, 21), 51, 30, occ)
	require.NoError(t, err)
	second, err := s.SplitDay(day(2026, 1, 22), 51, 30, occ)
	require.NoError(t, err)

	assert.Equal(t, day(2026, 1, 21), first.Date)
	assert.Equal(t, day(2026, 1, 22), second.Date)

	first.Date = second.Date
	assert.Equal(t, first, second)
}
