package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/amped/internal/health"
	"github.com/claude/amped/internal/impact"
	"github.com/claude/amped/internal/observability"
)

// Orchestrator produces the full set of aggregated, impact-scored metrics for
// a reporting period. It fans out one task per metric type, joins them, and
// merges device and manual values per type.
type Orchestrator struct {
	source   health.Source
	manual   health.ManualStore
	profiles health.ProfileProvider
	sleep    *SleepAggregator
	windowed *WindowedStatsAggregator
	calc     *impact.Calculator
	cache    *Cache
	log      *slog.Logger

	// now is swapped in tests; the zero value means time.Now.
	now func() time.Time
}

// NewOrchestrator wires an orchestrator. cache may be nil to disable
// memoization.
func NewOrchestrator(source health.Source, manual health.ManualStore, profiles health.ProfileProvider, calc *impact.Calculator, cache *Cache, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		source:   source,
		manual:   manual,
		profiles: profiles,
		sleep:    NewSleepAggregator(source, log),
		windowed: NewWindowedStatsAggregator(source, log),
		calc:     calc,
		cache:    cache,
		log:      log,
	}
}

func (o *Orchestrator) clock() time.Time {
	if o.now != nil {
		return o.now()
	}
	return time.Now()
}

// fetchResult is one task's contribution. metric is nil when the type has
// nothing to report this call.
type fetchResult struct {
	typ      health.MetricType
	metric   *health.AggregatedMetric
	override bool
	err      error
}

// FetchAllMetrics returns one AggregatedMetric per metric type that has data
// for the period. A metric the sources cannot serve is simply absent; only
// cancellation fails the batch.
func (o *Orchestrator) FetchAllMetrics(ctx context.Context, p health.Period) ([]health.AggregatedMetric, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown reporting period %q", p)
	}
	now := o.clock()
	if cached, ok := o.cache.get(p, now); ok {
		return cached, nil
	}

	started := time.Now()
	deviceTypes := health.DeviceTypes()
	manualTypes := health.ManualTypes()

	results := make(chan fetchResult, len(deviceTypes)*2+len(manualTypes))
	var wg sync.WaitGroup

	// All tasks are issued before any result is awaited. Each task owns its
	// own result construction; nothing shared is written concurrently.
	for _, t := range deviceTypes {
		wg.Add(1)
		go func(t health.MetricType) {
			defer wg.Done()
			m, err := o.fetchDevice(ctx, t, p, now)
			results <- fetchResult{typ: t, metric: m, err: err}
		}(t)

		if health.Lookup(t).AllowsManual {
			wg.Add(1)
			go func(t health.MetricType) {
				defer wg.Done()
				m, err := o.fetchManual(ctx, t, now)
				results <- fetchResult{typ: t, metric: m, override: true, err: err}
			}(t)
		}
	}
	for _, t := range manualTypes {
		wg.Add(1)
		go func(t health.MetricType) {
			defer wg.Done()
			m, err := o.fetchManual(ctx, t, now)
			results <- fetchResult{typ: t, metric: m, err: err}
		}(t)
	}

	wg.Wait()
	close(results)

	// A cancelled call contributes nothing: no partially merged batch.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Join point. Collection is strictly sequential from here on.
	merged := make(map[health.MetricType]*health.AggregatedMetric)
	overrides := make(map[health.MetricType]*health.AggregatedMetric)
	for r := range results {
		switch {
		case r.err != nil:
			o.log.Debug("metric unavailable", "type", r.typ, "error", r.err)
			observability.RecordFetch(string(r.typ), "unavailable")
		case r.metric == nil:
			observability.RecordFetch(string(r.typ), "absent")
		case r.override:
			overrides[r.typ] = r.metric
		default:
			merged[r.typ] = r.metric
			observability.RecordFetch(string(r.typ), "ok")
		}
	}

	// Manual substitutes for missing device data; when both exist the more
	// recently dated value wins, with ties keeping the device value.
	for t, m := range overrides {
		existing, ok := merged[t]
		if !ok || m.ObservedAt.After(existing.ObservedAt) {
			merged[t] = m
		}
	}

	out := o.decorate(ctx, merged, now)
	o.cache.put(p, out, now)
	observability.ObserveFetchAll(string(p), time.Since(started))
	return out, nil
}

// FetchLatest returns the freshest single value for one metric type, merged
// across sources by the same precedence rule as the batch path. Returns nil
// when neither source has data.
func (o *Orchestrator) FetchLatest(ctx context.Context, t health.MetricType) (*health.AggregatedMetric, error) {
	if !health.Known(t) {
		return nil, fmt.Errorf("unknown metric type %q", t)
	}
	now := o.clock()
	def := health.Lookup(t)

	var device *health.AggregatedMetric
	if def.Capability == health.SourceDevice {
		ob, err := o.source.Latest(ctx, t)
		if err != nil {
			o.log.Debug("latest unavailable", "type", t, "error", err)
		} else if ob != nil && health.IsValid(t, ob.Value) {
			device = &health.AggregatedMetric{
				Type:       t,
				Value:      ob.Value,
				Unit:       def.Unit,
				WindowEnd:  now,
				ObservedAt: ob.Time,
				Source:     health.SourceDevice,
			}
		}
	}

	result := device
	if def.Capability == health.SourceManual || def.AllowsManual {
		manual, err := o.fetchManual(ctx, t, now)
		if err != nil {
			o.log.Debug("manual unavailable", "type", t, "error", err)
		} else if manual != nil && (result == nil || manual.ObservedAt.After(result.ObservedAt)) {
			result = manual
		}
	}
	if result == nil {
		return nil, nil
	}

	if profile := o.profile(ctx); profile != nil {
		result.Impact = o.calc.For(*result, profile)
	}
	return result, nil
}

// fetchDevice dispatches one device metric per the catalog's aggregation
// method.
func (o *Orchestrator) fetchDevice(ctx context.Context, t health.MetricType, p health.Period, now time.Time) (*health.AggregatedMetric, error) {
	if health.MethodFor(t) != health.SpecialWindowed {
		return o.windowed.Aggregate(ctx, t, p, now)
	}

	ob, err := o.sleep.AverageSleep(ctx, p, now)
	if err != nil || ob == nil {
		return nil, err
	}
	return &health.AggregatedMetric{
		Type:       t,
		Value:      ob.Value,
		Unit:       health.UnitFor(t),
		WindowEnd:  now,
		ObservedAt: ob.Time,
		Source:     health.SourceDevice,
	}, nil
}

// fetchManual reads the standing questionnaire value for one type. Manual
// metrics report their current value regardless of period: they represent a
// lifestyle condition, not a time-windowed measurement.
func (o *Orchestrator) fetchManual(ctx context.Context, t health.MetricType, now time.Time) (*health.AggregatedMetric, error) {
	ob, err := o.manual.CurrentFor(ctx, t)
	if err != nil {
		return nil, err
	}
	if ob == nil || !health.IsValid(t, ob.Value) {
		return nil, nil
	}
	return &health.AggregatedMetric{
		Type:       t,
		Value:      ob.Value,
		Unit:       health.UnitFor(t),
		WindowEnd:  now,
		ObservedAt: ob.Time,
		Source:     health.SourceManual,
	}, nil
}

// decorate attaches impact scores and fixes the output order to the catalog's.
func (o *Orchestrator) decorate(ctx context.Context, merged map[health.MetricType]*health.AggregatedMetric, now time.Time) []health.AggregatedMetric {
	profile := o.profile(ctx)

	out := make([]health.AggregatedMetric, 0, len(merged))
	for _, t := range health.AllTypes() {
		m, ok := merged[t]
		if !ok {
			continue
		}
		if profile != nil {
			m.Impact = o.calc.For(*m, profile)
		}
		out = append(out, *m)
	}
	return out
}

func (o *Orchestrator) profile(ctx context.Context) *health.Profile {
	profile, err := o.profiles.CurrentProfile(ctx)
	if err != nil {
		o.log.Warn("profile unavailable, skipping impact scores", "error", err)
		return nil
	}
	return profile
}
