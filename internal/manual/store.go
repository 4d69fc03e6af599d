// Package manual persists user-entered questionnaire answers and the user
// profile in a local SQLite database. It is the standing "manual" source the
// orchestrator merges against device data.
package manual

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/amped/internal/health"
	_ "modernc.org/sqlite"
)

// ErrOutOfRange is returned when an answer falls outside the metric's valid
// range. Out-of-range values are dropped, never clamped; the questionnaire
// layer decides whether to re-ask.
var ErrOutOfRange = errors.New("answer outside valid range")

// Store holds questionnaire answers and the profile.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at dir/manual.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "manual.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening manual store: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS answers (
			metric_type TEXT    NOT NULL,
			value       REAL    NOT NULL,
			recorded_at INTEGER NOT NULL,
			PRIMARY KEY (metric_type, recorded_at)
		)`,
		`CREATE TABLE IF NOT EXISTS profile (
			id        INTEGER PRIMARY KEY CHECK (id = 1),
			age       INTEGER NOT NULL,
			sex       TEXT    NOT NULL,
			height_cm REAL    NOT NULL,
			weight_kg REAL    NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating manual schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveAnswer records a questionnaire answer for a metric type. The type must
// be either manual-only or a device metric flagged for manual override.
func (s *Store) SaveAnswer(ctx context.Context, t health.MetricType, value float64, at time.Time) error {
	if !health.Known(t) {
		return fmt.Errorf("unknown metric type %q", t)
	}
	def := health.Lookup(t)
	if def.Capability != health.SourceManual && !def.AllowsManual {
		return fmt.Errorf("metric %q does not accept manual answers", t)
	}
	if !def.ValidRange.Contains(value) {
		return fmt.Errorf("answer %v for %s: %w", value, t, ErrOutOfRange)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO answers (metric_type, value, recorded_at) VALUES (?, ?, ?)`,
		string(t), value, at.Unix())
	if err != nil {
		return fmt.Errorf("saving answer for %s: %w", t, err)
	}
	return nil
}

// Current implements health.ManualStore: the latest answer per answered type.
func (s *Store) Current(ctx context.Context) ([]health.Observation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.metric_type, a.value, a.recorded_at
		 FROM answers a
		 WHERE a.recorded_at = (
			SELECT MAX(recorded_at) FROM answers WHERE metric_type = a.metric_type
		 )
		 ORDER BY a.metric_type`)
	if err != nil {
		return nil, fmt.Errorf("querying answers: %w", err)
	}
	defer rows.Close()

	var result []health.Observation
	for rows.Next() {
		ob, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ob)
	}
	return result, rows.Err()
}

// CurrentFor implements health.ManualStore for a single type. Returns nil
// when the questionnaire never collected it.
func (s *Store) CurrentFor(ctx context.Context, t health.MetricType) (*health.Observation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT metric_type, value, recorded_at
		 FROM answers
		 WHERE metric_type = ?
		 ORDER BY recorded_at DESC
		 LIMIT 1`, string(t))

	ob, err := scanAnswer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ob, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnswer(r rowScanner) (*health.Observation, error) {
	var (
		typ  string
		val  float64
		unix int64
	)
	if err := r.Scan(&typ, &val, &unix); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning answer: %w", err)
	}
	return &health.Observation{
		Type:   health.MetricType(typ),
		Value:  val,
		Time:   time.Unix(unix, 0),
		Source: health.SourceManual,
	}, nil
}

// SaveProfile stores the single user profile, replacing any previous one.
func (s *Store) SaveProfile(ctx context.Context, p health.Profile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO profile (id, age, sex, height_cm, weight_kg) VALUES (1, ?, ?, ?, ?)`,
		p.Age, string(p.Sex), p.HeightCm, p.WeightKg)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// CurrentProfile implements health.ProfileProvider. Returns nil when the
// onboarding never completed.
func (s *Store) CurrentProfile(ctx context.Context) (*health.Profile, error) {
	var (
		p   health.Profile
		sex string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT age, sex, height_cm, weight_kg FROM profile WHERE id = 1`,
	).Scan(&p.Age, &sex, &p.HeightCm, &p.WeightKg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	p.Sex = health.Sex(sex)
	return &p, nil
}
