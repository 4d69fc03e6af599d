// Package ingest accepts device export payloads and writes them to the
// sample store, validating every value against the metric catalog on the way
// in.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/amped/internal/health"
	"github.com/claude/amped/internal/observability"
	"github.com/claude/amped/internal/storage"
	"github.com/google/uuid"
)

// Sink is the subset of the sample store the provider writes to.
type Sink interface {
	InsertSamples(ctx context.Context, rows []health.Observation) (int64, error)
	InsertSleepStages(ctx context.Context, rows []health.Observation) (int64, error)
	RecordImport(ctx context.Context, log storage.ImportLog) error
}

// Invalidator drops cached fetch results after a write.
type Invalidator interface {
	Invalidate()
}

// Result holds the outcome of one ingest batch.
type Result struct {
	BatchID         uuid.UUID `json:"batch_id"`
	SamplesReceived int       `json:"samples_received"`
	SamplesInserted int64     `json:"samples_inserted"`
	StagesReceived  int       `json:"stages_received"`
	StagesInserted  int64     `json:"stages_inserted"`
	Dropped         int       `json:"dropped"`
	Rejected        int       `json:"rejected"`
	RejectedNames   []string  `json:"rejected_names,omitempty"`
	Message         string    `json:"message,omitempty"`
}

// Provider processes device export payloads.
type Provider struct {
	sink  Sink
	cache Invalidator
	log   *slog.Logger
}

// NewProvider creates an ingest provider. cache may be nil.
func NewProvider(sink Sink, cache Invalidator, log *slog.Logger) *Provider {
	return &Provider{sink: sink, cache: cache, log: log}
}

// Ingest validates and stores one payload. Unknown metric names are rejected
// whole; individual out-of-range values are dropped, not clamped. Accepted
// data invalidates the fetch cache.
func (p *Provider) Ingest(ctx context.Context, payload *Payload) (*Result, error) {
	result := &Result{BatchID: uuid.New()}

	var sampleRows []health.Observation
	rejectedSet := map[string]bool{}

	for _, series := range payload.Data.Metrics {
		t := health.MetricType(series.Name)
		// Sleep arrives as stage intervals, never as a point series; a
		// sleep_hours series would land in a table aggregation never reads.
		if !health.Known(t) || health.Lookup(t).Capability != health.SourceDevice || t == health.TypeSleepHours {
			if !rejectedSet[series.Name] {
				result.RejectedNames = append(result.RejectedNames, series.Name)
				rejectedSet[series.Name] = true
			}
			result.Rejected += len(series.Data)
			continue
		}

		for _, point := range series.Data {
			result.SamplesReceived++
			if !health.IsValid(t, point.Qty) {
				result.Dropped++
				p.log.Warn("dropping out-of-range sample", "metric", series.Name, "qty", point.Qty)
				continue
			}
			sampleRows = append(sampleRows, health.Observation{
				Type:   t,
				Value:  point.Qty,
				Time:   point.Date.Time,
				Source: health.SourceDevice,
			})
		}
	}

	var stageRows []health.Observation
	for _, stage := range payload.Data.Sleep {
		result.StagesReceived++
		canonical, known := health.NormalizeStage(stage.Stage)
		if !known {
			result.Dropped++
			p.log.Warn("dropping unknown sleep stage", "stage", stage.Stage)
			continue
		}
		if !stage.End.After(stage.Start.Time) {
			result.Dropped++
			continue
		}
		stageRows = append(stageRows, health.Observation{
			Type:   health.TypeSleepHours,
			Time:   stage.Start.Time,
			End:    stage.End.Time,
			Stage:  canonical,
			Value:  stage.End.Sub(stage.Start.Time).Hours(),
			Source: health.SourceDevice,
		})
	}

	var err error
	if result.SamplesInserted, err = p.sink.InsertSamples(ctx, sampleRows); err != nil {
		return result, fmt.Errorf("inserting samples: %w", err)
	}
	if result.StagesInserted, err = p.sink.InsertSleepStages(ctx, stageRows); err != nil {
		return result, fmt.Errorf("inserting sleep stages: %w", err)
	}

	if err := p.sink.RecordImport(ctx, storage.ImportLog{
		BatchID:         result.BatchID,
		ReceivedAt:      time.Now(),
		SamplesInserted: result.SamplesInserted,
		StagesInserted:  result.StagesInserted,
		Dropped:         result.Dropped,
		Rejected:        result.Rejected,
	}); err != nil {
		p.log.Warn("import log write failed", "error", err)
	}

	observability.RecordIngestRows("inserted", int(result.SamplesInserted+result.StagesInserted))
	observability.RecordIngestRows("dropped", result.Dropped)
	observability.RecordIngestRows("rejected", result.Rejected)

	if result.SamplesInserted+result.StagesInserted > 0 && p.cache != nil {
		p.cache.Invalidate()
	}

	if len(result.RejectedNames) > 0 {
		result.Message = fmt.Sprintf(
			"Some metrics were rejected because they are not device-capable catalog types: %v. "+
				"Check GET /api/v1/catalog for the supported list.",
			result.RejectedNames)
	}

	return result, nil
}
