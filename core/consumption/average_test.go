package consumption

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/impianti/core/model"
	"github.com/kilianp07/impianti/core/window"
)

func day(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }

func TestMonthlyAverages(t *testing.T) {
	fs := []model.Facility{
		{ID: "1", Name: "Impianto A", Consumptions: []model.ConsumptionRecord{
			{Date: day(time.June, 1), KWh: 10},
			{Date: day(time.June, 2), KWh: 20},
			{Date: day(time.June, 3), KWh: 30},
			{Date: day(time.July, 1), KWh: 1000},
		}},
		{ID: "2", Name: "Impianto B", Consumptions: []model.ConsumptionRecord{
			{Date: day(time.June, 10), KWh: 4},
		}},
	}
	avgs, err := MonthlyAverages(fs, 6)
	require.NoError(t, err)
	require.Len(t, avgs, 2)
	assert.Equal(t, "Impianto A", avgs[0].Facility)
	assert.InDelta(t, 20, avgs[0].KWh, 1e-9)
	assert.Equal(t, 3, avgs[0].Days)
	assert.Equal(t, "Impianto B", avgs[1].Facility)
	assert.InDelta(t, 4, avgs[1].KWh, 1e-9)
}

func TestMonthlyAveragesNoData(t *testing.T) {
	fs := []model.Facility{{ID: "1", Name: "A", Consumptions: []model.ConsumptionRecord{{Date: day(time.June, 1), KWh: 1}}}}
	_, err := MonthlyAverages(fs, 2)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestMonthlyAveragesInvalidMonth(t *testing.T) {
	_, err := MonthlyAverages(nil, 13)
	assert.ErrorIs(t, err, window.ErrInvalidMonth)
}

func TestMonthlyAveragesEmptyFleet(t *testing.T) {
	avgs, err := MonthlyAverages(nil, 1)
	require.NoError(t, err)
	assert.Empty(t, avgs)
}
