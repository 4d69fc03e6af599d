package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/claude/amped/internal/health"
	"github.com/jackc/pgx/v5"
)

// InsertSamples batch-inserts point samples. Returns the number actually
// inserted (duplicates skipped via ON CONFLICT DO NOTHING).
func (db *DB) InsertSamples(ctx context.Context, rows []health.Observation) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO samples (time, metric_type, value, source) VALUES `
	args := make([]any, 0, len(rows)*4)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 4
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		args = append(args, r.Time, r.Type, r.Value, r.Source)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting samples: %w", err)
	}
	return tag.RowsAffected(), nil
}

// InsertSleepStages batch-inserts sleep stage intervals. Returns the number
// actually inserted.
func (db *DB) InsertSleepStages(ctx context.Context, rows []health.Observation) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO sleep_stages (start_time, end_time, stage, source) VALUES `
	args := make([]any, 0, len(rows)*4)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 4
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		args = append(args, r.Time, r.End, r.Stage, r.Source)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting sleep stages: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Latest implements health.Source. Returns nil when the metric has no samples.
// Sleep reads the stage-interval table: the latest value is the most recent
// night's asleep total, since sleep never enters the point-sample table.
func (db *DB) Latest(ctx context.Context, t health.MetricType) (*health.Observation, error) {
	if t == health.TypeSleepHours {
		return db.latestSleep(ctx)
	}

	var ob health.Observation
	err := db.Pool.QueryRow(ctx,
		`SELECT time, metric_type, value, source
		 FROM samples
		 WHERE metric_type = $1
		 ORDER BY time DESC
		 LIMIT 1`, t,
	).Scan(&ob.Time, &ob.Type, &ob.Value, &ob.Source)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest %s: %w", t, err)
	}
	return &ob, nil
}

// latestSleep sums the asleep-stage intervals of the most recent day that has
// any, reported at the time the last interval ended.
func (db *DB) latestSleep(ctx context.Context) (*health.Observation, error) {
	var (
		hours   float64
		lastEnd time.Time
	)
	err := db.Pool.QueryRow(ctx,
		`SELECT SUM(EXTRACT(EPOCH FROM (end_time - start_time))) / 3600.0,
		        MAX(end_time)
		 FROM sleep_stages
		 WHERE stage = ANY($1)
		 GROUP BY date_trunc('day', start_time)
		 ORDER BY date_trunc('day', start_time) DESC
		 LIMIT 1`, health.AsleepStages(),
	).Scan(&hours, &lastEnd)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest sleep: %w", err)
	}
	return &health.Observation{
		Type:   health.TypeSleepHours,
		Value:  hours,
		Time:   lastEnd,
		Source: health.SourceDevice,
	}, nil
}

// RangedSamples implements health.Source. Sleep uses the stage-interval
// table; everything else reads point samples.
func (db *DB) RangedSamples(ctx context.Context, t health.MetricType, start, end time.Time) ([]health.Observation, error) {
	if t == health.TypeSleepHours {
		return db.sleepStages(ctx, start, end)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT time, metric_type, value, source
		 FROM samples
		 WHERE metric_type = $1 AND time >= $2 AND time < $3
		 ORDER BY time ASC`,
		t, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying samples for %s: %w", t, err)
	}
	defer rows.Close()

	var result []health.Observation
	for rows.Next() {
		var ob health.Observation
		if err := rows.Scan(&ob.Time, &ob.Type, &ob.Value, &ob.Source); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		result = append(result, ob)
	}
	return result, rows.Err()
}

func (db *DB) sleepStages(ctx context.Context, start, end time.Time) ([]health.Observation, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT start_time, end_time, stage, source
		 FROM sleep_stages
		 WHERE start_time >= $1 AND start_time < $2
		 ORDER BY start_time ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sleep stages: %w", err)
	}
	defer rows.Close()

	var result []health.Observation
	for rows.Next() {
		var ob health.Observation
		if err := rows.Scan(&ob.Time, &ob.End, &ob.Stage, &ob.Source); err != nil {
			return nil, fmt.Errorf("scanning sleep stage: %w", err)
		}
		ob.Type = health.TypeSleepHours
		ob.Value = ob.End.Sub(ob.Time).Hours()
		result = append(result, ob)
	}
	return result, rows.Err()
}

// WindowedStatistic implements health.Source. Buckets are daily, anchored at
// the start of the window's first day. Only days with samples produce rows;
// zero-filling or excluding the gaps is the aggregator's call.
func (db *DB) WindowedStatistic(ctx context.Context, t health.MetricType, method health.StatMethod, start, end time.Time) ([]health.DayBucket, error) {
	var agg string
	switch method {
	case health.StatSum:
		agg = "SUM(value)"
	case health.StatAverage:
		agg = "AVG(value)"
	default:
		return nil, fmt.Errorf("unknown stat method %q", method)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc('day', time) AS day, `+agg+`
		 FROM samples
		 WHERE metric_type = $1 AND time >= $2 AND time < $3
		 GROUP BY day
		 ORDER BY day ASC`,
		t, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying windowed %s for %s: %w", method, t, err)
	}
	defer rows.Close()

	var result []health.DayBucket
	for rows.Next() {
		var b health.DayBucket
		if err := rows.Scan(&b.Day, &b.Value); err != nil {
			return nil, fmt.Errorf("scanning day bucket: %w", err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}
