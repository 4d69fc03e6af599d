// Package importer replays exported payload files through the ingest
// provider for bulk backfills.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/amped/internal/ingest"
)

// Stats tracks import progress across files.
type Stats struct {
	FilesProcessed  int
	FilesErrored    int
	SamplesInserted int64
	StagesInserted  int64
	Dropped         int
	Rejected        int
}

// Importer reads export .json files from a directory tree and feeds them to
// the ingest provider.
type Importer struct {
	provider *ingest.Provider
	log      *slog.Logger
	stats    Stats
}

// New creates an Importer.
func New(provider *ingest.Provider, log *slog.Logger) *Importer {
	return &Importer{provider: provider, log: log}
}

// Import processes every .json file under dir, oldest filename first. A file
// that fails to parse is skipped, not fatal: backfills are expected to meet
// the occasional truncated export.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return &imp.stats, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		if err := imp.importFile(ctx, path); err != nil {
			imp.stats.FilesErrored++
			imp.log.Warn("skipping file", "path", path, "error", err)
			continue
		}
		imp.stats.FilesProcessed++
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading: %w", err)
	}

	var payload ingest.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parsing: %w", err)
	}

	result, err := imp.provider.Ingest(ctx, &payload)
	if err != nil {
		return fmt.Errorf("ingesting: %w", err)
	}

	imp.stats.SamplesInserted += result.SamplesInserted
	imp.stats.StagesInserted += result.StagesInserted
	imp.stats.Dropped += result.Dropped
	imp.stats.Rejected += result.Rejected

	imp.log.Info("imported file", "path", path,
		"samples", result.SamplesInserted, "stages", result.StagesInserted)
	return nil
}
