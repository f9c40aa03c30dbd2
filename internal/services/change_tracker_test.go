package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/benmeehan/activity-heatmap/internal/services"
	"github.com/benmeehan/activity-heatmap/pkg/file"
	"github.com/benmeehan/activity-heatmap/pkg/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// touch creates empty files under dir.
func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
}

func newTracker(t *testing.T) (*services.ChangeTracker, *store.Store, string) {
	t.Helper()
	root := t.TempDir()
	activitiesDir := filepath.Join(root, "activities")
	require.NoError(t, os.MkdirAll(activitiesDir, 0o755))

	fileClient := file.NewFileService()
	st := store.NewStore(filepath.Join(root, "generated"), fileClient)
	require.NoError(t, st.Init())

	return services.NewChangeTracker(activitiesDir, st, fileClient, zerolog.Nop()), st, activitiesDir
}

func TestChangeTracker_NewFiles_DetectsAdditions(t *testing.T) {
	// Setup
	tracker, st, dir := newTracker(t)
	touch(t, dir, "a.fit", "b.fit", "c.fit")
	require.NoError(t, st.SaveRegistry([]string{"a.fit", "b.fit"}))

	// Execute
	newFiles, err := tracker.NewFiles(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"c.fit"}, newFiles)

	known, err := st.LoadRegistry()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.fit", "b.fit", "c.fit"}, known)
}

func TestChangeTracker_NewFiles_NoAdditionsLeavesRegistry(t *testing.T) {
	// Setup
	tracker, st, dir := newTracker(t)
	touch(t, dir, "a.fit")
	require.NoError(t, st.SaveRegistry([]string{"a.fit", "b.fit"}))
	before, err := os.ReadFile(st.RegistryPath())
	require.NoError(t, err)

	// Execute
	newFiles, err := tracker.NewFiles(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Empty(t, newFiles)

	after, err := os.ReadFile(st.RegistryPath())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.Equal(t, "a.fit\nb.fit\n", string(after))
}

func TestChangeTracker_NewFiles_MissingRegistry(t *testing.T) {
	tracker, st, dir := newTracker(t)
	touch(t, dir, "b.fit", "a.fit")

	newFiles, err := tracker.NewFiles(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a.fit", "b.fit"}, newFiles)

	known, err := st.LoadRegistry()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.fit", "b.fit"}, known)
}

func TestChangeTracker_NewFiles_RemovalsAreDroppedOnRewrite(t *testing.T) {
	tracker, st, dir := newTracker(t)
	touch(t, dir, "a.fit", "c.fit")
	require.NoError(t, st.SaveRegistry([]string{"a.fit", "b.fit"}))

	newFiles, err := tracker.NewFiles(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"c.fit"}, newFiles)

	known, err := st.LoadRegistry()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.fit", "c.fit"}, known)
}

func TestChangeTracker_ListActivityFiles_ExtensionIgnoresCase(t *testing.T) {
	tracker, _, dir := newTracker(t)
	touch(t, dir, "RIDE.FIT", "run.Fit", "notes.txt", "fit")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.fit"), 0o755))

	names, err := tracker.ListActivityFiles()

	require.NoError(t, err)
	assert.Equal(t, []string{"RIDE.FIT", "run.Fit"}, names)
}

func TestChangeTracker_ListActivityFiles_MissingDirectory(t *testing.T) {
	fileClient := file.NewFileService()
	st := store.NewStore(t.TempDir(), fileClient)
	tracker := services.NewChangeTracker(filepath.Join(t.TempDir(), "missing"), st, fileClient, zerolog.Nop())

	_, err := tracker.ListActivityFiles()

	assert.Error(t, err)
}

func TestChangeTracker_NewFiles_CancelledContext(t *testing.T) {
	tracker, _, dir := newTracker(t)
	touch(t, dir, "a.fit")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tracker.NewFiles(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
