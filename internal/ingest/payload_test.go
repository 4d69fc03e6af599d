package ingest

import (
	"encoding/json"
	"testing"
	"time"
)

func TestExportTimeParse(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-08-29 23:15:00 +0200", time.Date(2026, 8, 29, 23, 15, 0, 0, time.FixedZone("", 2*3600))},
		{"2026-08-29", time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		var et ExportTime
		if err := et.Parse(tc.in); err != nil {
			t.Fatalf("Parse(%q): %v", tc.in, err)
		}
		if !et.Equal(tc.want) {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, et.Time, tc.want)
		}
	}
}

func TestExportTimeParseRejectsGarbage(t *testing.T) {
	var et ExportTime
	if err := et.Parse("last tuesday"); err == nil {
		t.Error("expected error for unparseable time")
	}
}

func TestPayloadDecode(t *testing.T) {
	raw := `{
		"data": {
			"metrics": [
				{
					"name": "step_count",
					"units": "count",
					"data": [
						{"date": "2026-08-29 10:00:00 +0000", "qty": 4231},
						{"date": "2026-08-29 11:00:00 +0000", "qty": 812}
					]
				}
			],
			"sleep": [
				{"start": "2026-08-28 23:30:00 +0000", "end": "2026-08-29 01:10:00 +0000", "stage": "Deep"}
			]
		}
	}`

	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(p.Data.Metrics) != 1 || p.Data.Metrics[0].Name != "step_count" {
		t.Fatalf("metrics = %+v", p.Data.Metrics)
	}
	if got := p.Data.Metrics[0].Data[1].Qty; got != 812 {
		t.Errorf("qty = %v, want 812", got)
	}
	if len(p.Data.Sleep) != 1 {
		t.Fatalf("sleep = %+v", p.Data.Sleep)
	}
	if got := p.Data.Sleep[0].End.Sub(p.Data.Sleep[0].Start.Time); got != 100*time.Minute {
		t.Errorf("stage duration = %v, want 100m", got)
	}
}
