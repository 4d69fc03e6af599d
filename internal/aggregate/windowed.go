package aggregate

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/amped/internal/health"
)

// WindowedStatsAggregator reduces a device metric's daily statistics to one
// value for a reporting window. Sleep is not handled here; the orchestrator
// routes it to SleepAggregator.
type WindowedStatsAggregator struct {
	source health.Source
	log    *slog.Logger
}

// NewWindowedStatsAggregator creates a WindowedStatsAggregator reading from
// source.
func NewWindowedStatsAggregator(source health.Source, log *slog.Logger) *WindowedStatsAggregator {
	return &WindowedStatsAggregator{source: source, log: log}
}

// Aggregate computes the window value for a non-sleep device metric, or nil
// when the source has nothing usable for the window. This is the single
// dispatch point on the catalog's aggregation method.
func (a *WindowedStatsAggregator) Aggregate(ctx context.Context, t health.MetricType, p health.Period, now time.Time) (*health.AggregatedMetric, error) {
	switch health.MethodFor(t) {
	case health.Cumulative:
		return a.cumulative(ctx, t, p, now)
	case health.Average:
		return a.discreteAverage(ctx, t, p, now)
	default:
		// SpecialWindowed belongs to SleepAggregator; routing it here is a
		// caller bug.
		panic("aggregate: windowed stats cannot handle " + string(t))
	}
}

// cumulative sums daily totals. Over multi-day windows, days without data
// count as zero: an accurate rolling activity average must treat an inactive
// day as zero activity, so the divisor is the full calendar day count.
func (a *WindowedStatsAggregator) cumulative(ctx context.Context, t health.MetricType, p health.Period, now time.Time) (*health.AggregatedMetric, error) {
	start, end := windowBounds(p, now)
	buckets, err := a.source.WindowedStatistic(ctx, t, health.StatSum, start, end)
	if err != nil {
		return nil, err
	}
	if len(buckets) == 0 {
		return nil, nil
	}

	var total float64
	for _, b := range buckets {
		if b.Value != nil {
			total += *b.Value
		}
	}

	value := total
	if p != health.PeriodDay {
		value = total / float64(p.Days())
	}
	return a.build(t, value, now, now)
}

// discreteAverage averages daily reading averages. Days that produced no
// reading are excluded, not zero-filled: an absent physiological reading
// carries no signal, unlike an absent step count.
func (a *WindowedStatsAggregator) discreteAverage(ctx context.Context, t health.MetricType, p health.Period, now time.Time) (*health.AggregatedMetric, error) {
	if p == health.PeriodDay {
		ob, err := a.source.Latest(ctx, t)
		if err != nil {
			return nil, err
		}
		if ob == nil {
			return nil, nil
		}
		return a.build(t, ob.Value, now, ob.Time)
	}

	start, end := windowBounds(p, now)
	buckets, err := a.source.WindowedStatistic(ctx, t, health.StatAverage, start, end)
	if err != nil {
		return nil, err
	}

	var (
		sum  float64
		days int
	)
	for _, b := range buckets {
		if b.Value == nil {
			continue
		}
		sum += *b.Value
		days++
	}
	if days == 0 {
		return nil, nil
	}
	return a.build(t, sum/float64(days), now, now)
}

// build constructs the immutable result, suppressing values outside the
// metric's valid range rather than clamping them.
func (a *WindowedStatsAggregator) build(t health.MetricType, value float64, windowEnd, observedAt time.Time) (*health.AggregatedMetric, error) {
	if !health.IsValid(t, value) {
		a.log.Warn("implausible aggregate suppressed", "type", t, "value", value)
		return nil, nil
	}
	return &health.AggregatedMetric{
		Type:       t,
		Value:      value,
		Unit:       health.UnitFor(t),
		WindowEnd:  windowEnd,
		ObservedAt: observedAt,
		Source:     health.SourceDevice,
	}, nil
}
