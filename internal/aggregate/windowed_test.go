package aggregate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/claude/amped/internal/health"
	"github.com/stretchr/testify/require"
)

// Cumulative metrics count empty days as zero activity: the divisor is the
// full calendar day count, not the days that happened to have data.
func TestCumulativeAverageCountsEmptyDays(t *testing.T) {
	src := newFakeSource()
	day := startOfDay(testDay)
	src.buckets[bucketKey{health.TypeStepCount, health.StatSum}] = []health.DayBucket{
		{Day: day.AddDate(0, 0, -10), Value: ptr(10000)},
		{Day: day.AddDate(0, 0, -5), Value: ptr(8000)},
	}

	agg := NewWindowedStatsAggregator(src, discardLogger())
	m, err := agg.Aggregate(context.Background(), health.TypeStepCount, health.PeriodMonth, testDay)
	require.NoError(t, err)
	require.NotNil(t, m)
	require.InDelta(t, 18000.0/31.0, m.Value, 1e-9)
}

func TestCumulativeDaySingleWindow(t *testing.T) {
	src := newFakeSource()
	src.buckets[bucketKey{health.TypeStepCount, health.StatSum}] = []health.DayBucket{
		{Day: startOfDay(testDay), Value: ptr(4321)},
	}

	agg := NewWindowedStatsAggregator(src, discardLogger())
	m, err := agg.Aggregate(context.Background(), health.TypeStepCount, health.PeriodDay, testDay)
	require.NoError(t, err)
	require.NotNil(t, m)
	require.InDelta(t, 4321, m.Value, 1e-9)
}

// Discrete-average metrics exclude empty days: an absent physiological
// reading carries no signal.
func TestDiscreteAverageExcludesEmptyDays(t *testing.T) {
	src := newFakeSource()
	day := startOfDay(testDay)
	src.buckets[bucketKey{health.TypeRestingHeartRate, health.StatAverage}] = []health.DayBucket{
		{Day: day.AddDate(0, 0, -4), Value: ptr(62)},
		{Day: day.AddDate(0, 0, -3), Value: nil},
		{Day: day.AddDate(0, 0, -2), Value: nil},
		{Day: day.AddDate(0, 0, -1), Value: ptr(58)},
		{Day: day, Value: nil},
	}

	agg := NewWindowedStatsAggregator(src, discardLogger())
	m, err := agg.Aggregate(context.Background(), health.TypeRestingHeartRate, health.PeriodMonth, testDay)
	require.NoError(t, err)
	require.NotNil(t, m)
	require.InDelta(t, 60.0, m.Value, 1e-9)
}

func TestDiscreteAverageDayUsesLatest(t *testing.T) {
	src := newFakeSource()
	src.latest[health.TypeRestingHeartRate] = &health.Observation{
		Type: health.TypeRestingHeartRate, Value: 57, Time: testDay.Add(-2 * time.Hour),
	}

	agg := NewWindowedStatsAggregator(src, discardLogger())
	m, err := agg.Aggregate(context.Background(), health.TypeRestingHeartRate, health.PeriodDay, testDay)
	require.NoError(t, err)
	require.NotNil(t, m)
	require.InDelta(t, 57, m.Value, 1e-9)
	require.Equal(t, src.latest[health.TypeRestingHeartRate].Time, m.ObservedAt)
}

func TestEmptyWindowOmitsMetric(t *testing.T) {
	agg := NewWindowedStatsAggregator(newFakeSource(), discardLogger())

	m, err := agg.Aggregate(context.Background(), health.TypeStepCount, health.PeriodMonth, testDay)
	require.NoError(t, err)
	require.Nil(t, m, "no data must yield absence, not a zero entry")

	m, err = agg.Aggregate(context.Background(), health.TypeRestingHeartRate, health.PeriodMonth, testDay)
	require.NoError(t, err)
	require.Nil(t, m)
}

func TestSourceErrorPropagates(t *testing.T) {
	src := newFakeSource()
	src.bucketsErr[health.TypeStepCount] = errors.New("sensor service down")

	agg := NewWindowedStatsAggregator(src, discardLogger())
	_, err := agg.Aggregate(context.Background(), health.TypeStepCount, health.PeriodMonth, testDay)
	require.Error(t, err)
}

func TestImplausibleAggregateSuppressed(t *testing.T) {
	src := newFakeSource()
	src.latest[health.TypeRestingHeartRate] = &health.Observation{
		Type: health.TypeRestingHeartRate, Value: 500, Time: testDay,
	}

	agg := NewWindowedStatsAggregator(src, discardLogger())
	m, err := agg.Aggregate(context.Background(), health.TypeRestingHeartRate, health.PeriodDay, testDay)
	require.NoError(t, err)
	require.Nil(t, m, "out-of-range values are suppressed, never clamped")
}
