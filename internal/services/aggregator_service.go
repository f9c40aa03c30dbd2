package services

import (
	"context"
	"fmt"
	"time"

	"github.com/benmeehan/activity-heatmap/internal/constants"
	"github.com/benmeehan/activity-heatmap/internal/models"
	"github.com/benmeehan/activity-heatmap/pkg/geo"
	"github.com/benmeehan/activity-heatmap/pkg/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RunResult is delivered by RunAsync when a run completes.
type RunResult struct {
	Coords geo.CoordinateSet
	Err    error
}

// AggregatorService sequences change tracking, loading, filtering and
// persistence into the regenerate and merge workflows. Only one run may be in
// flight at a time.
type AggregatorService struct {
	store         *store.Store
	tracker       *ChangeTracker
	loader        Loader
	reporter      ProgressReporter
	mirror        ArtifactMirror
	minDistance   float64
	progressEvery int
	logger        zerolog.Logger
}

// AggregatorOption configures an AggregatorService.
type AggregatorOption func(*AggregatorService)

// WithMinDistance overrides the separation threshold in meters.
func WithMinDistance(meters float64) AggregatorOption {
	return func(a *AggregatorService) {
		if meters > 0 {
			a.minDistance = meters
		}
	}
}

// WithReporter sets the progress reporter.
func WithReporter(r ProgressReporter) AggregatorOption {
	return func(a *AggregatorService) { a.reporter = r }
}

// WithMirror uploads the persisted artifacts after every successful run.
func WithMirror(m ArtifactMirror) AggregatorOption {
	return func(a *AggregatorService) { a.mirror = m }
}

// WithFilterProgress reports filter progress every n candidates.
func WithFilterProgress(n int) AggregatorOption {
	return func(a *AggregatorService) { a.progressEvery = n }
}

// NewAggregatorService creates an AggregatorService.
func NewAggregatorService(st *store.Store, tracker *ChangeTracker, loader Loader, logger zerolog.Logger,
	opts ...AggregatorOption) *AggregatorService {
	a := &AggregatorService{
		store:       st,
		tracker:     tracker,
		loader:      loader,
		minDistance: geo.DefaultMinDistance,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.reporter == nil {
		a.reporter = NewLogProgressReporter(logger)
	}
	return a
}

// run carries the state of a single aggregation run.
type run struct {
	id      string
	mode    string
	start   time.Time
	summary models.RunSummary
}

func (a *AggregatorService) newRun(wf Workflow) *run {
	r := &run{
		id:    uuid.New().String(),
		mode:  modeOf(wf),
		start: time.Now(),
	}
	r.summary = models.RunSummary{RunID: r.id, Mode: r.mode}
	return r
}

func (a *AggregatorService) report(r *run, stage, state string) {
	a.reporter.Report(models.Progress{
		RunID:     r.id,
		Mode:      r.mode,
		Stage:     stage,
		State:     state,
		Message:   stage + " " + state,
		Timestamp: time.Now().UTC(),
	})
}

func (a *AggregatorService) fail(r *run, stage string, err error) error {
	a.report(r, stage, constants.StateFailed)
	aggErr := &AggregationError{Mode: r.mode, Stage: stage, Err: err}
	a.finish(r, nil, aggErr)
	return aggErr
}

func (a *AggregatorService) finish(r *run, coords geo.CoordinateSet, err error) {
	r.summary.Coordinates = len(coords)
	r.summary.Duration = time.Since(r.start)
	r.summary.Timestamp = time.Now().UTC()
	if len(coords) > 0 {
		b := geo.Bounds(coords)
		r.summary.Bounds = &models.Bounds{
			MinLat: b.Bottom(),
			MinLon: b.Left(),
			MaxLat: b.Top(),
			MaxLon: b.Right(),
		}
	}
	if err != nil {
		r.summary.Error = err.Error()
	}
	a.reporter.Finish(r.summary)
}

// Run executes a workflow and persists its result. A nil workflow yields, and
// persists, an empty coordinate set.
func (a *AggregatorService) Run(ctx context.Context, wf Workflow) (geo.CoordinateSet, error) {
	r := a.newRun(wf)
	logger := a.logger.With().Str("run_id", r.id).Str("mode", r.mode).Logger()
	logger.Info().Msg("Aggregation run started")

	if err := ctx.Err(); err != nil {
		return nil, a.fail(r, constants.StageLoadingActivities, err)
	}

	var coords geo.CoordinateSet
	switch w := wf.(type) {
	case Regenerate, *Regenerate:
		var err error
		if coords, err = a.regenerate(ctx, r); err != nil {
			return nil, err
		}
	case Merge:
		var err error
		if coords, err = a.merge(ctx, r, w); err != nil {
			return nil, err
		}
	case *Merge:
		var err error
		if coords, err = a.merge(ctx, r, *w); err != nil {
			return nil, err
		}
	default:
		coords = geo.CoordinateSet{}
	}

	a.report(r, constants.StageSavingCoords, constants.StateStarted)
	if err := a.store.SaveCoordinates(coords); err != nil {
		return nil, a.fail(r, constants.StageSavingCoords, fmt.Errorf("%w: %w", ErrPersist, err))
	}
	a.report(r, constants.StageSavingCoords, constants.StateDone)

	a.mirrorArtifacts(ctx, r, logger)

	a.finish(r, coords, nil)
	logger.Info().Int("coordinates", len(coords)).Msg("Aggregation run completed")
	return coords, nil
}

// RunAsync executes Run on its own goroutine.
func (a *AggregatorService) RunAsync(ctx context.Context, wf Workflow) <-chan RunResult {
	out := make(chan RunResult, 1)
	go func() {
		defer close(out)
		coords, err := a.Run(ctx, wf)
		out <- RunResult{Coords: coords, Err: err}
	}()
	return out
}

func (a *AggregatorService) regenerate(ctx context.Context, r *run) (geo.CoordinateSet, error) {
	a.report(r, constants.StageSavingFileList, constants.StateStarted)
	files, err := a.tracker.ListActivityFiles()
	if err != nil {
		return nil, a.fail(r, constants.StageSavingFileList, err)
	}
	// Unconditional rewrite, unlike ChangeTracker.NewFiles.
	if err := a.store.SaveRegistry(files); err != nil {
		return nil, a.fail(r, constants.StageSavingFileList, fmt.Errorf("%w: %w", ErrPersist, err))
	}
	a.report(r, constants.StageSavingFileList, constants.StateDone)

	return a.loadAndFilter(ctx, r, files, nil)
}

func (a *AggregatorService) merge(ctx context.Context, r *run, m Merge) (geo.CoordinateSet, error) {
	seed := m.Seed
	if seed == nil {
		seed = geo.CoordinateSet{}
	}
	return a.loadAndFilter(ctx, r, m.Files, seed)
}

func (a *AggregatorService) loadAndFilter(ctx context.Context, r *run, files []string, seed geo.CoordinateSet) (geo.CoordinateSet, error) {
	r.summary.Files = len(files)
	r.summary.SeedSize = len(seed)

	a.report(r, constants.StageLoadingActivities, constants.StateStarted)
	raw, err := a.loader.Load(ctx, files)
	if err != nil {
		return nil, a.fail(r, constants.StageLoadingActivities, err)
	}
	r.summary.Samples = len(raw)
	a.report(r, constants.StageLoadingActivities, constants.StateDone)

	a.report(r, constants.StageFilteringCoords, constants.StateStarted)
	var opts []geo.FilterOption
	if a.progressEvery > 0 {
		opts = append(opts, geo.WithProgress(a.progressEvery, func(processed, total, kept int) {
			a.reporter.Report(models.Progress{
				RunID:     r.id,
				Mode:      r.mode,
				Stage:     constants.StageFilteringCoords,
				State:     constants.StateUpdate,
				Processed: processed,
				Total:     total,
				Kept:      kept,
				Timestamp: time.Now().UTC(),
			})
		}))
	}
	coords := geo.Filter(geo.NormalizeAll(raw), seed, a.minDistance, opts...)
	a.report(r, constants.StageFilteringCoords, constants.StateDone)

	return coords, nil
}

func (a *AggregatorService) mirrorArtifacts(ctx context.Context, r *run, logger zerolog.Logger) {
	if a.mirror == nil {
		return
	}
	a.report(r, constants.StageMirroringArtifacts, constants.StateStarted)
	if err := a.mirror.Mirror(ctx, a.store.CoordsPath(), a.store.RegistryPath()); err != nil {
		// Local state is already persisted; the mirror only lags behind.
		logger.Warn().Err(err).Msg("Failed to mirror artifacts")
		a.report(r, constants.StageMirroringArtifacts, constants.StateFailed)
		return
	}
	a.report(r, constants.StageMirroringArtifacts, constants.StateDone)
}

// Refresh brings the persisted coordinate set up to date and returns it. A
// missing or unreadable persisted state triggers a regenerate, new activity
// files trigger a merge, and otherwise the persisted set is returned as-is.
func (a *AggregatorService) Refresh(ctx context.Context) (geo.CoordinateSet, error) {
	if err := a.store.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	exists, err := a.store.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		a.logger.Info().Msg("No persisted coordinates, regenerating")
		return a.Run(ctx, Regenerate{})
	}

	existing, err := a.store.LoadCoordinates()
	if err != nil {
		a.logger.Warn().Err(err).Msg("Persisted coordinates unreadable, regenerating")
		return a.Run(ctx, Regenerate{})
	}

	newFiles, err := a.tracker.NewFiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(newFiles) == 0 {
		return existing, nil
	}

	return a.Run(ctx, Merge{Files: newFiles, Seed: existing})
}
