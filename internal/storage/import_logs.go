package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportLog records one ingest batch for auditing.
type ImportLog struct {
	BatchID         uuid.UUID `json:"batch_id"`
	ReceivedAt      time.Time `json:"received_at"`
	SamplesInserted int64     `json:"samples_inserted"`
	StagesInserted  int64     `json:"stages_inserted"`
	Dropped         int       `json:"dropped"`
	Rejected        int       `json:"rejected"`
}

// RecordImport inserts an import log row.
func (db *DB) RecordImport(ctx context.Context, log ImportLog) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO import_logs (batch_id, received_at, samples_inserted, stages_inserted, dropped, rejected)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		log.BatchID, log.ReceivedAt, log.SamplesInserted, log.StagesInserted, log.Dropped, log.Rejected)
	if err != nil {
		return fmt.Errorf("recording import: %w", err)
	}
	return nil
}

// RecentImports returns the most recent import log rows, newest first.
func (db *DB) RecentImports(ctx context.Context, limit int) ([]ImportLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT batch_id, received_at, samples_inserted, stages_inserted, dropped, rejected
		 FROM import_logs
		 ORDER BY received_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []ImportLog
	for rows.Next() {
		var l ImportLog
		if err := rows.Scan(&l.BatchID, &l.ReceivedAt, &l.SamplesInserted, &l.StagesInserted, &l.Dropped, &l.Rejected); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
