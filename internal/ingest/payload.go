package ingest

import (
	"encoding/json"
	"fmt"
	"time"
)

// ExportTime handles the device export date format: "2006-01-02 15:04:05 -0700",
// with a date-only fallback used by aggregated entries.
type ExportTime struct {
	time.Time
}

const (
	exportTimeLayout = "2006-01-02 15:04:05 -0700"
	exportDateLayout = "2006-01-02"
)

func (t *ExportTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.Parse(s)
}

func (t ExportTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(exportTimeLayout))
}

// Parse parses an export time string, trying full datetime first, then
// date-only.
func (t *ExportTime) Parse(s string) error {
	parsed, err := time.Parse(exportTimeLayout, s)
	if err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err2 := time.Parse(exportDateLayout, s)
	if err2 == nil {
		t.Time = parsed
		return nil
	}
	return fmt.Errorf("cannot parse export time %q: %w", s, err)
}

// Payload is the top-level device export JSON structure.
type Payload struct {
	Data PayloadData `json:"data"`
}

// PayloadData carries the sample arrays.
type PayloadData struct {
	Metrics []MetricSeries `json:"metrics"`
	Sleep   []SleepStage   `json:"sleep"`
}

// MetricSeries is one metric's point samples.
type MetricSeries struct {
	Name  string        `json:"name"`
	Units string        `json:"units"`
	Data  []MetricPoint `json:"data"`
}

// MetricPoint is a single point sample.
type MetricPoint struct {
	Date ExportTime `json:"date"`
	Qty  float64    `json:"qty"`
}

// SleepStage is one sleep stage interval. Stage names may be localized.
type SleepStage struct {
	Start ExportTime `json:"start"`
	End   ExportTime `json:"end"`
	Stage string     `json:"stage"`
}
