package exporter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/heatsplit/internal/engine"
	"github.com/jgoulah/heatsplit/pkg/models"
)

func TestWriteRecords_SortedWithFixedPrecision(t *testing.T) {
	records := []models.DailyRecord{
		{Date: time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC), KWh: 35, MeanTemp: 25.5, MinTemp: 19, MaxTemp: 31, Cost: 7.2135},
		{Date: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), KWh: 28.456, MeanTemp: 31.04, MinTemp: 24, MaxTemp: 38.5, Cost: 5.8648},
	}

	var buf strings.Builder
	require.NoError(t, WriteRecords(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,kwh,mean_temp,min_temp,max_temp,cost", lines[0])
	assert.Equal(t, "2026-01-10,28.46,31.0,24.0,38.5,5.86", lines[1])
	assert.Equal(t, "2026-01-11,35.00,25.5,19.0,31.0,7.21", lines[2])
}

func TestWriteSplits_SortedByDate(t *testing.T) {
	days := []engine.DailySplit{
		{
			Date:        time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
			BaselineKWh: 24.11, BaselineCost: 4.97, ActualKWh: 15, ActualCost: 3.09,
			ExcessKWh: -9.11, ExcessCost: -1.88, ShareA: 1.55, ShareB: 1.55,
			Status: engine.StatusBoth,
		},
		{
			Date:        time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			BaselineKWh: 24.11, BaselineCost: 4.97, ActualKWh: 51, ActualCost: 10.51,
			ExcessKWh: 26.89, ExcessCost: 5.54, ShareA: 2.48, ShareB: 8.03,
			Status: engine.StatusBoth,
		},
	}

	var buf strings.Builder
	require.NoError(t, WriteSplits(&buf, days))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "2026-01-10,"))
	assert.True(t, strings.HasPrefix(lines[2], "2026-01-11,"))
	assert.True(t, strings.HasSuffix(lines[1], ",both"))
}

func TestWriteRecords_EmptyStillWritesHeader(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteRecords(&buf, nil))
	assert.Equal(t, "date,kwh,mean_temp,min_temp,max_temp,cost\n", buf.String())
}
