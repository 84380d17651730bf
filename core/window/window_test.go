package window

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/impianti/core/model"
)

func rec(month time.Month, day int, kwh float64) model.ConsumptionRecord {
	return model.ConsumptionRecord{Date: time.Date(2025, month, day, 0, 0, 0, 0, time.UTC), KWh: kwh}
}

func TestExtractFiltersAndOrders(t *testing.T) {
	f := model.Facility{ID: "a", Consumptions: []model.ConsumptionRecord{
		rec(time.March, 3, 30),
		rec(time.March, 1, 10),
		rec(time.February, 2, 999),
		rec(time.March, 8, 999),
		rec(time.March, 2, 20),
		rec(time.March, 7, 70),
		rec(time.March, 5, 50),
		rec(time.March, 4, 40),
		rec(time.March, 6, 60),
	}}
	w, err := Extract([]model.Facility{f}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30, 40, 50, 60, 70}, w["a"])
	require.NoError(t, w.Validate([]string{"a"}, FirstDays))
	v, err := w.At("a", 6)
	require.NoError(t, err)
	assert.Equal(t, 70.0, v)
}

func TestExtractShortWeek(t *testing.T) {
	f := model.Facility{ID: "a", Consumptions: []model.ConsumptionRecord{rec(time.May, 1, 1), rec(time.May, 2, 2)}}
	w, err := Extract([]model.Facility{f}, 5)
	require.NoError(t, err)
	assert.Len(t, w["a"], 2)

	_, err = w.At("a", 2)
	assert.True(t, errors.Is(err, ErrInsufficientData))
	_, err = w.At("missing", 0)
	assert.True(t, errors.Is(err, ErrInsufficientData))
	assert.ErrorIs(t, w.Validate([]string{"a"}, FirstDays), ErrInsufficientData)
}

func TestExtractInvalidMonth(t *testing.T) {
	for _, m := range []int{0, 13, -1} {
		_, err := Extract(nil, m)
		assert.ErrorIs(t, err, ErrInvalidMonth, "month %d", m)
	}
}

func TestExtractEmptyFacility(t *testing.T) {
	w, err := Extract([]model.Facility{{ID: "empty"}}, 1)
	require.NoError(t, err)
	assert.Empty(t, w["empty"])
	_, ok := w["empty"]
	assert.True(t, ok)
}

func TestExtractGapKeepsDayAlignment(t *testing.T) {
	f := model.Facility{ID: "a"}
	for day := 1; day <= FirstDays; day++ {
		if day == 4 {
			continue
		}
		f.Consumptions = append(f.Consumptions, rec(time.June, day, float64(day)))
	}
	w, err := Extract([]model.Facility{f}, 6)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, w["a"])

	v, err := w.At("a", 2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
	_, err = w.At("a", 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
	_, err = w.At("a", 4)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.ErrorIs(t, w.Validate([]string{"a"}, FirstDays), ErrInsufficientData)
}

func TestExtractSameMonthTwoYears(t *testing.T) {
	f := model.Facility{ID: "a"}
	for _, year := range []int{2024, 2025} {
		for day := 1; day <= FirstDays; day++ {
			f.Consumptions = append(f.Consumptions, model.ConsumptionRecord{
				Date: time.Date(year, time.March, day, 0, 0, 0, 0, time.UTC),
				KWh:  float64(year*100 + day),
			})
		}
	}
	require.NoError(t, f.Validate())
	w, err := Extract([]model.Facility{f}, 3)
	assert.ErrorIs(t, err, ErrAmbiguousData)
	assert.ErrorContains(t, err, "facility a: day 1")
	assert.Nil(t, w)
}

func TestValidateRequiresExactDays(t *testing.T) {
	w := Window{
		"ok":   {1, 2, 3, 4, 5, 6, 7},
		"long": {1, 2, 3, 4, 5, 6, 7, 8},
	}
	require.NoError(t, w.Validate([]string{"ok"}, FirstDays))
	assert.ErrorIs(t, w.Validate([]string{"ok", "long"}, FirstDays), ErrAmbiguousData)
	assert.ErrorIs(t, w.Validate([]string{"unknown"}, FirstDays), ErrInsufficientData)
}
