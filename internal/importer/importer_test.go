package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/amped/internal/health"
	"github.com/claude/amped/internal/ingest"
	"github.com/claude/amped/internal/storage"
)

type memorySink struct {
	samples int
	stages  int
}

func (m *memorySink) InsertSamples(ctx context.Context, rows []health.Observation) (int64, error) {
	m.samples += len(rows)
	return int64(len(rows)), nil
}

func (m *memorySink) InsertSleepStages(ctx context.Context, rows []health.Observation) (int64, error) {
	m.stages += len(rows)
	return int64(len(rows)), nil
}

func (m *memorySink) RecordImport(ctx context.Context, log storage.ImportLog) error { return nil }

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

const goodExport = `{
	"data": {
		"metrics": [
			{"name": "step_count", "units": "count", "data": [
				{"date": "2026-08-28 10:00:00 +0000", "qty": 4231},
				{"date": "2026-08-28 11:00:00 +0000", "qty": 812}
			]}
		],
		"sleep": [
			{"start": "2026-08-27 23:30:00 +0000", "end": "2026-08-28 06:30:00 +0000", "stage": "Deep"}
		]
	}
}`

func TestImportDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "export-1.json", goodExport)
	writeFile(t, dir, "export-2.json", goodExport)
	writeFile(t, dir, "broken.json", `{"data": truncated`)
	writeFile(t, dir, "notes.txt", "not an export")

	sink := &memorySink{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	imp := New(ingest.NewProvider(sink, nil, log), log)

	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.FilesProcessed != 2 {
		t.Errorf("files processed = %d, want 2", stats.FilesProcessed)
	}
	if stats.FilesErrored != 1 {
		t.Errorf("files errored = %d, want 1 (the truncated export)", stats.FilesErrored)
	}
	if stats.SamplesInserted != 4 || stats.StagesInserted != 2 {
		t.Errorf("inserted samples=%d stages=%d, want 4/2", stats.SamplesInserted, stats.StagesInserted)
	}
	if sink.samples != 4 || sink.stages != 2 {
		t.Errorf("sink received samples=%d stages=%d, want 4/2", sink.samples, sink.stages)
	}
}

func TestImportStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "export.json", goodExport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	imp := New(ingest.NewProvider(&memorySink{}, nil, log), log)

	stats, err := imp.Import(ctx, dir)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if stats.FilesProcessed != 0 {
		t.Errorf("files processed = %d, want 0 after cancel", stats.FilesProcessed)
	}
}

func TestImportEmptyDirectory(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	imp := New(ingest.NewProvider(&memorySink{}, nil, log), log)

	stats, err := imp.Import(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.FilesProcessed != 0 || stats.FilesErrored != 0 {
		t.Errorf("stats = %+v, want zeroes", stats)
	}
}
