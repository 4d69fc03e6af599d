package aggregate

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/amped/internal/health"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type bucketKey struct {
	typ    health.MetricType
	method health.StatMethod
}

// fakeSource is an in-memory health.Source. Call counters are guarded so the
// orchestrator's concurrent tasks can hit it safely.
type fakeSource struct {
	mu sync.Mutex

	latest    map[health.MetricType]*health.Observation
	latestErr map[health.MetricType]error

	stages []health.Observation

	buckets    map[bucketKey][]health.DayBucket
	bucketsErr map[health.MetricType]error

	latestCalls int
	rangedCalls int
	windowCalls int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		latest:     make(map[health.MetricType]*health.Observation),
		latestErr:  make(map[health.MetricType]error),
		buckets:    make(map[bucketKey][]health.DayBucket),
		bucketsErr: make(map[health.MetricType]error),
	}
}

func (f *fakeSource) Latest(ctx context.Context, t health.MetricType) (*health.Observation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latestCalls++
	if err := f.latestErr[t]; err != nil {
		return nil, err
	}
	return f.latest[t], nil
}

func (f *fakeSource) RangedSamples(ctx context.Context, t health.MetricType, start, end time.Time) ([]health.Observation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rangedCalls++
	var out []health.Observation
	for _, s := range f.stages {
		if s.Type == t && !s.Time.Before(start) && s.Time.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSource) WindowedStatistic(ctx context.Context, t health.MetricType, method health.StatMethod, start, end time.Time) ([]health.DayBucket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windowCalls++
	if err := f.bucketsErr[t]; err != nil {
		return nil, err
	}
	return f.buckets[bucketKey{t, method}], nil
}

// addNight inserts one asleep-stage interval of the given duration starting
// at 01:00 on date.
func (f *fakeSource) addNight(date time.Time, hours float64) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 1, 0, 0, 0, date.Location())
	end := start.Add(time.Duration(hours * float64(time.Hour)))
	f.stages = append(f.stages, health.Observation{
		Type: health.TypeSleepHours, Time: start, End: end,
		Stage: health.StageDeep, Value: hours, Source: health.SourceDevice,
	})
}

type fakeManual struct {
	mu      sync.Mutex
	answers map[health.MetricType]*health.Observation
	err     error
}

func newFakeManual() *fakeManual {
	return &fakeManual{answers: make(map[health.MetricType]*health.Observation)}
}

func (f *fakeManual) Current(ctx context.Context) ([]health.Observation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []health.Observation
	for _, ob := range f.answers {
		out = append(out, *ob)
	}
	return out, nil
}

func (f *fakeManual) CurrentFor(ctx context.Context, t health.MetricType) (*health.Observation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.answers[t], nil
}

func (f *fakeManual) set(t health.MetricType, value float64, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers[t] = &health.Observation{Type: t, Value: value, Time: at, Source: health.SourceManual}
}

type fakeProfiles struct {
	profile *health.Profile
	err     error
}

func (f *fakeProfiles) CurrentProfile(ctx context.Context) (*health.Profile, error) {
	return f.profile, f.err
}

func ptr(v float64) *float64 { return &v }
