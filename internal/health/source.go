package health

import (
	"context"
	"time"
)

// StatMethod selects the per-day statistic computed by a windowed query.
type StatMethod string

const (
	StatSum     StatMethod = "sum"
	StatAverage StatMethod = "average"
)

// DayBucket is one day of a windowed statistic. Value is nil when the source
// had no samples that day; how a missing day is treated (zero-filled or
// excluded) is the aggregator's decision, not the source's.
type DayBucket struct {
	Day   time.Time
	Value *float64
}

// Source is the device/sensor read capability. Implementations must tolerate
// concurrent calls: the orchestrator issues one per metric type at once.
type Source interface {
	// Latest returns the most recent observation for a type, or nil if the
	// source has none.
	Latest(ctx context.Context, t MetricType) (*Observation, error)

	// RangedSamples returns raw samples in [start, end), ordered by time.
	// Used for sleep stage intervals.
	RangedSamples(ctx context.Context, t MetricType, start, end time.Time) ([]Observation, error)

	// WindowedStatistic returns daily buckets over [start, end), anchored at
	// the start of the window's first day.
	WindowedStatistic(ctx context.Context, t MetricType, method StatMethod, start, end time.Time) ([]DayBucket, error)
}

// ManualStore supplies the user's current questionnaire-derived values.
type ManualStore interface {
	// Current returns the standing answer for every answered metric type.
	Current(ctx context.Context) ([]Observation, error)

	// CurrentFor returns the standing answer for one type, or nil if the
	// questionnaire never collected it.
	CurrentFor(ctx context.Context, t MetricType) (*Observation, error)
}

// ProfileProvider supplies the user profile consumed by impact scoring.
type ProfileProvider interface {
	CurrentProfile(ctx context.Context) (*Profile, error)
}
