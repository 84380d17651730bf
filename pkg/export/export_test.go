package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/impianti/core/consumption"
	"github.com/kilianp07/impianti/core/planner"
)

var steps = []planner.Step{
	{Day: 1, FacilityID: "a", Facility: "Impianto A", KWh: 1.5},
	{Day: 2, FacilityID: "b", Facility: "Impianto, B", KWh: 2, Penalty: planner.SwitchPenalty},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, steps))
	want := "day,facility_id,facility,kwh,penalty\n" +
		"1,a,Impianto A,1.5,0\n" +
		"2,b,\"Impianto, B\",2,5\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, steps))
	var got []planner.Step
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, steps, got)
}

func TestWriteAveragesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAveragesCSV(&buf, []consumption.Average{{FacilityID: "a", Facility: "A", KWh: 20, Days: 3}}))
	assert.Equal(t, "facility_id,facility,kwh,days\na,A,20,3\n", buf.String())
}
