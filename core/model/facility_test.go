package model

import (
	"math"
	"testing"
	"time"
)

func TestFacilityValidate(t *testing.T) {
	d := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	ok := Facility{ID: "f1", Consumptions: []ConsumptionRecord{{Date: d, KWh: 3}, {Date: d.AddDate(0, 0, 1), KWh: 0}}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := map[string]Facility{
		"missing id": {Name: "x"},
		"negative":   {ID: "f1", Consumptions: []ConsumptionRecord{{Date: d, KWh: -1}}},
		"nan":        {ID: "f1", Consumptions: []ConsumptionRecord{{Date: d, KWh: math.NaN()}}},
		"infinite":   {ID: "f1", Consumptions: []ConsumptionRecord{{Date: d, KWh: math.Inf(1)}}},
		"duplicate":  {ID: "f1", Consumptions: []ConsumptionRecord{{Date: d, KWh: 1}, {Date: d.Add(3 * time.Hour), KWh: 2}}},
	}
	for name, f := range cases {
		if err := f.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestFacilityDisplayName(t *testing.T) {
	if n := (Facility{ID: "f1"}).DisplayName(); n != "f1" {
		t.Fatalf("expected id fallback got %s", n)
	}
	if n := (Facility{ID: "f1", Name: "Impianto A"}).DisplayName(); n != "Impianto A" {
		t.Fatalf("unexpected name %s", n)
	}
}
