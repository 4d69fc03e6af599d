package aggregate

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/amped/internal/health"
)

// Plausibility bounds for a multi-night sleep average. An average outside
// them means corrupted source data; the metric is suppressed, not clamped.
const (
	minPlausibleSleepHr = 0.5
	maxPlausibleSleepHr = 16.0
)

// SleepAggregator computes per-night sleep duration from raw stage intervals
// and averages it across the nights of a reporting window.
type SleepAggregator struct {
	source health.Source
	log    *slog.Logger
}

// NewSleepAggregator creates a SleepAggregator reading from source.
func NewSleepAggregator(source health.Source, log *slog.Logger) *SleepAggregator {
	return &SleepAggregator{source: source, log: log}
}

// NightlySleep computes total asleep hours for the calendar night of date.
// Stage intervals marked "In Bed" or "Awake" do not count. Returns nil when
// the night has no usable data: absence is distinct from a zero-value reading
// and is never reported as zero.
func (a *SleepAggregator) NightlySleep(ctx context.Context, date time.Time) (*health.Observation, error) {
	start := startOfDay(date)
	end := start.AddDate(0, 0, 1)

	samples, err := a.source.RangedSamples(ctx, health.TypeSleepHours, start, end)
	if err != nil {
		return nil, err
	}

	var total float64
	var lastEnd time.Time
	for _, s := range samples {
		if !health.IsAsleepStage(s.Stage) {
			continue
		}
		total += s.End.Sub(s.Time).Hours()
		if s.End.After(lastEnd) {
			lastEnd = s.End
		}
	}
	if total <= 0 {
		return nil, nil
	}

	return &health.Observation{
		Type:   health.TypeSleepHours,
		Value:  total,
		Time:   lastEnd,
		Source: health.SourceDevice,
	}, nil
}

// AverageSleep returns the average nightly sleep for the window ending at
// endDate. For PeriodDay it is last night's value directly. For longer
// periods each night is computed independently and only nights with data
// enter the average: partial data is expected and a single failed night never
// aborts the whole computation. Returns nil when no night had data or the
// average is implausible.
func (a *SleepAggregator) AverageSleep(ctx context.Context, p health.Period, endDate time.Time) (*health.Observation, error) {
	if p == health.PeriodDay {
		return a.NightlySleep(ctx, endDate)
	}

	var (
		sum    float64
		nights int
		latest time.Time
	)
	// Oldest night first; the fixed order is for deterministic logs only.
	for i := p.Days() - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		date := endDate.AddDate(0, 0, -i)
		ob, err := a.NightlySleep(ctx, date)
		if err != nil {
			a.log.Debug("night unavailable", "date", date.Format("2006-01-02"), "error", err)
			continue
		}
		if ob == nil {
			continue
		}
		sum += ob.Value
		nights++
		if ob.Time.After(latest) {
			latest = ob.Time
		}
	}

	if nights == 0 {
		return nil, nil
	}
	avg := sum / float64(nights)
	if avg < minPlausibleSleepHr || avg > maxPlausibleSleepHr {
		a.log.Warn("implausible sleep average suppressed", "avg_hr", avg, "nights", nights)
		return nil, nil
	}

	return &health.Observation{
		Type:   health.TypeSleepHours,
		Value:  avg,
		Time:   latest,
		Source: health.SourceDevice,
	}, nil
}
