package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/benmeehan/activity-heatmap/internal/utils"
	"github.com/benmeehan/activity-heatmap/pkg/activity"
	"github.com/benmeehan/activity-heatmap/pkg/geo"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"
)

// Loader decodes a batch of activity files into raw samples.
type Loader interface {
	Load(ctx context.Context, files []string) ([]geo.RawSample, error)
}

// FileReport is the outcome of decoding one file.
type FileReport struct {
	File     string
	Samples  int
	Warnings []string
	Err      error
}

// LoaderService fans activity decoding out over a bounded worker pool.
type LoaderService struct {
	activitiesDir string
	decoder       activity.Decoder
	workers       int
	quantum       int64
	stride        int
	logger        zerolog.Logger

	reports cmap.ConcurrentMap[string, FileReport]
}

// NewLoaderService creates a LoaderService. workers <= 0 selects
// utils.DefaultWorkerCount; quantum and stride <= 0 select the extractor defaults.
func NewLoaderService(activitiesDir string, decoder activity.Decoder, workers int, quantum int64, stride int,
	logger zerolog.Logger) *LoaderService {
	if workers <= 0 {
		workers = utils.DefaultWorkerCount()
	}
	if quantum <= 0 {
		quantum = activity.DefaultQuantum
	}
	if stride <= 0 {
		stride = activity.DefaultStride
	}
	return &LoaderService{
		activitiesDir: activitiesDir,
		decoder:       decoder,
		workers:       workers,
		quantum:       quantum,
		stride:        stride,
		logger:        logger,
		reports:       cmap.New[FileReport](),
	}
}

// Workers returns the configured parallelism.
func (l *LoaderService) Workers() int {
	return l.workers
}

// Load decodes every file and concatenates the samples in input order. Files
// with decode errors contribute nothing and are logged. Files that cannot be
// read at all fail the batch, but only after every other file has finished.
func (l *LoaderService) Load(ctx context.Context, files []string) ([]geo.RawSample, error) {
	l.reports = cmap.New[FileReport]()
	if len(files) == 0 {
		return []geo.RawSample{}, nil
	}

	workers := l.workers
	if workers > len(files) {
		workers = len(files)
	}

	results := make([][]geo.RawSample, len(files))
	errs := make([]error, len(files))

	pool := utils.NewWorkerPool(workers)
	submitted := 0
	for i, name := range files {
		if ctx.Err() != nil {
			break
		}
		i, name := i, name
		pool.Submit(func() {
			results[i], errs[i] = l.loadOne(name)
		})
		submitted++
	}
	pool.Shutdown()

	if err := ctx.Err(); err != nil && submitted < len(files) {
		return nil, err
	}

	var fatal []error
	total := 0
	for i := range files {
		if errs[i] != nil {
			fatal = append(fatal, errs[i])
			continue
		}
		total += len(results[i])
	}
	if len(fatal) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, errors.Join(fatal...))
	}

	samples := make([]geo.RawSample, 0, total)
	for _, r := range results {
		samples = append(samples, r...)
	}

	l.logger.Info().
		Int("files", len(files)).
		Int("workers", workers).
		Int("samples", len(samples)).
		Msg("Activities loaded")
	return samples, nil
}

// loadOne decodes and extracts a single file. It touches no shared state besides
// the concurrent report map.
func (l *LoaderService) loadOne(name string) ([]geo.RawSample, error) {
	path := filepath.Join(l.activitiesDir, name)
	report := FileReport{File: name}

	table, err := l.decoder.Decode(path)
	if errors.Is(err, activity.ErrDecode) {
		table = activity.Table{Errors: []error{err}}
		err = nil
	}
	if err != nil {
		report.Err = err
		l.reports.Set(name, report)
		l.logger.Error().Err(err).Str("file", name).Msg("Failed to read activity")
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	for _, decodeErr := range table.Errors {
		report.Warnings = append(report.Warnings, decodeErr.Error())
	}
	if len(table.Errors) > 0 {
		l.logger.Warn().
			Str("file", name).
			Strs("errors", report.Warnings).
			Msg("Errors while decoding activity")
	}
	if !table.HasRecords {
		l.logger.Debug().Str("file", name).Msg("No record messages in activity")
	}

	samples := activity.ExtractWith(table, l.quantum, l.stride)
	report.Samples = len(samples)
	l.reports.Set(name, report)
	return samples, nil
}

// Reports returns the per-file outcomes of the most recent Load.
func (l *LoaderService) Reports() map[string]FileReport {
	return l.reports.Items()
}
