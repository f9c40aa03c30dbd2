package services

import (
	"context"
	"fmt"

	"github.com/benmeehan/activity-heatmap/internal/utils"
	"github.com/benmeehan/activity-heatmap/pkg/activity"
	"github.com/benmeehan/activity-heatmap/pkg/file"
	"github.com/benmeehan/activity-heatmap/pkg/store"
	"github.com/rs/zerolog"
)

// ChangeTracker compares the activities directory against the file registry.
type ChangeTracker struct {
	activitiesDir string
	store         *store.Store
	fileClient    file.FileOperations
	logger        zerolog.Logger
}

// NewChangeTracker creates a ChangeTracker.
func NewChangeTracker(activitiesDir string, st *store.Store, fileClient file.FileOperations, logger zerolog.Logger) *ChangeTracker {
	return &ChangeTracker{
		activitiesDir: activitiesDir,
		store:         st,
		fileClient:    fileClient,
		logger:        logger,
	}
}

// ListActivityFiles returns the sorted names of the .fit files in the activities
// directory. The extension is matched case-insensitively; names are kept as-is.
func (c *ChangeTracker) ListActivityFiles() ([]string, error) {
	names, err := c.fileClient.ListDir(c.activitiesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.activitiesDir, err)
	}
	return utils.FilterExt(names, activity.FitExt), nil
}

// NewFiles returns the activity files that are not in the registry yet. When
// there are any, the registry is rewritten to the full current listing, which
// also drops files that have disappeared. When there are none, the registry is
// left alone.
func (c *ChangeTracker) NewFiles(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	current, err := c.ListActivityFiles()
	if err != nil {
		return nil, err
	}

	known, err := c.store.LoadRegistry()
	if err != nil {
		return nil, err
	}

	newFiles := utils.Difference(current, utils.FilterExt(known, activity.FitExt))
	if len(newFiles) == 0 {
		c.logger.Info().Int("known", len(known)).Msg("No new activity files")
		return newFiles, nil
	}

	c.logger.Info().
		Strs("new_files", newFiles).
		Int("current", len(current)).
		Msg("New activity files detected")

	if err := c.store.SaveRegistry(current); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return newFiles, nil
}
