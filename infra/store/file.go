package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/impianti/core/model"
)

type dataset struct {
	Facilities []facilityDoc `json:"facilities" yaml:"facilities"`
}

type facilityDoc struct {
	ID           string      `json:"id" yaml:"id"`
	Name         string      `json:"name" yaml:"name"`
	Consumptions []recordDoc `json:"consumptions" yaml:"consumptions"`
}

type recordDoc struct {
	Date string  `json:"date" yaml:"date"`
	KWh  float64 `json:"kwh" yaml:"kwh"`
}

var csvHeader = []string{"facility_id", "facility_name", "date", "kwh"}

// LoadFile reads a facility dataset from a YAML, JSON or CSV file.
func LoadFile(path string) ([]model.Facility, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return Decode(f, ext)
}

// Decode reads a facility dataset in the given format (yaml, json or csv).
// Facilities keep the order in which they first appear.
func Decode(r io.Reader, format string) ([]model.Facility, error) {
	var ds dataset
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&ds); err != nil {
			return nil, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&ds); err != nil {
			return nil, err
		}
	case "csv":
		var err error
		if ds, err = decodeCSV(r); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s", format)
	}
	return ds.facilities()
}

func (ds dataset) facilities() ([]model.Facility, error) {
	out := make([]model.Facility, 0, len(ds.Facilities))
	for _, fd := range ds.Facilities {
		f := model.Facility{ID: fd.ID, Name: fd.Name}
		for _, rd := range fd.Consumptions {
			d, err := parseDate(rd.Date)
			if err != nil {
				return nil, fmt.Errorf("facility %s: %w", fd.ID, err)
			}
			f.Consumptions = append(f.Consumptions, model.ConsumptionRecord{Date: d, KWh: rd.KWh})
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func decodeCSV(r io.Reader) (dataset, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return dataset{}, fmt.Errorf("read dataset CSV: %w", err)
	}
	if len(rows) == 0 {
		return dataset{}, fmt.Errorf("dataset CSV must have a header")
	}
	for i, h := range csvHeader {
		if i >= len(rows[0]) || strings.TrimSpace(rows[0][i]) != h {
			return dataset{}, fmt.Errorf("dataset CSV header mismatch. Expected: %v, Got: %v", csvHeader, rows[0])
		}
	}
	var ds dataset
	index := map[string]int{}
	for i, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return dataset{}, fmt.Errorf("dataset CSV row %d: expected %d columns, got %d", i+2, len(csvHeader), len(row))
		}
		kwh, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil {
			return dataset{}, fmt.Errorf("dataset CSV row %d: invalid kwh: %w", i+2, err)
		}
		id := strings.TrimSpace(row[0])
		pos, ok := index[id]
		if !ok {
			pos = len(ds.Facilities)
			index[id] = pos
			ds.Facilities = append(ds.Facilities, facilityDoc{ID: id, Name: strings.TrimSpace(row[1])})
		}
		ds.Facilities[pos].Consumptions = append(ds.Facilities[pos].Consumptions, recordDoc{Date: strings.TrimSpace(row[2]), KWh: kwh})
	}
	return ds, nil
}

func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return model.Day(d), nil
}
