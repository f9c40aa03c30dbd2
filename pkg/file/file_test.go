package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/benmeehan/activity-heatmap/pkg/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileService_WriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	fs := file.NewFileService()

	require.NoError(t, fs.WriteFileAtomic(path, []byte("first")))
	require.NoError(t, fs.WriteFileAtomic(path, []byte("second")))

	data, err := fs.ReadFileRaw(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temp files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileService_WriteFileAtomic_MissingDir(t *testing.T) {
	fs := file.NewFileService()

	err := fs.WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "out.bin"), []byte("x"))

	assert.Error(t, err)
}

func TestFileService_IsFileExists(t *testing.T) {
	dir := t.TempDir()
	fs := file.NewFileService()

	exists, err := fs.IsFileExists(filepath.Join(dir, "missing"))
	assert.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "present"), nil, 0600))
	exists, err = fs.IsFileExists(filepath.Join(dir, "present"))
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestFileService_ListDir_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.fit"), nil, 0600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.fit"), 0755))
	fs := file.NewFileService()

	names, err := fs.ListDir(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{"a.fit"}, names)
}

func TestFileService_ReadYamlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: cork\ncount: 3\n"), 0600))
	fs := file.NewFileService()

	var v struct {
		Name  string `yaml:"name"`
		Count int    `yaml:"count"`
	}
	require.NoError(t, fs.ReadYamlFile(path, &v))

	assert.Equal(t, "cork", v.Name)
	assert.Equal(t, 3, v.Count)
}

func TestFileService_WriteJsonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.json")
	fs := file.NewFileService()

	require.NoError(t, fs.WriteJsonFile(path, [][2]float64{{51.9, -8.4}}))

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[[51.9,-8.4]]\n", data)
}
