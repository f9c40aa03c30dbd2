package store

import (
	"fmt"
	"path/filepath"

	"github.com/benmeehan/activity-heatmap/pkg/file"
	"github.com/benmeehan/activity-heatmap/pkg/geo"
)

const (
	// CoordsFile holds the persisted filtered coordinate set.
	CoordsFile = "activity_coords"
	// RegistryFile lists the activity files already merged into CoordsFile.
	RegistryFile = "activity_files"
)

// Store persists the coordinate set and file registry under a generated directory.
type Store struct {
	dir        string
	fileClient file.FileOperations
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string, fileClient file.FileOperations) *Store {
	return &Store{
		dir:        dir,
		fileClient: fileClient,
	}
}

// Dir returns the generated directory.
func (s *Store) Dir() string { return s.dir }

// CoordsPath returns the path of the persisted coordinate array.
func (s *Store) CoordsPath() string { return filepath.Join(s.dir, CoordsFile) }

// RegistryPath returns the path of the file registry.
func (s *Store) RegistryPath() string { return filepath.Join(s.dir, RegistryFile) }

// Init creates the generated directory if needed.
func (s *Store) Init() error {
	return s.fileClient.EnsureDir(s.dir)
}

// Exists reports whether both persisted files are present.
func (s *Store) Exists() (bool, error) {
	for _, p := range []string{s.CoordsPath(), s.RegistryPath()} {
		ok, err := s.fileClient.IsFileExists(p)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// SaveCoordinates atomically replaces the persisted coordinate array.
func (s *Store) SaveCoordinates(set geo.CoordinateSet) error {
	if err := s.fileClient.WriteFileAtomic(s.CoordsPath(), MarshalCoordinates(set)); err != nil {
		return fmt.Errorf("failed to save coordinates: %w", err)
	}
	return nil
}

// LoadCoordinates reads the persisted coordinate array.
func (s *Store) LoadCoordinates() (geo.CoordinateSet, error) {
	data, err := s.fileClient.ReadFileRaw(s.CoordsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read coordinates: %w", err)
	}
	return UnmarshalCoordinates(data)
}

// SaveRegistry atomically rewrites the registry with names, sorted.
func (s *Store) SaveRegistry(names []string) error {
	if err := s.fileClient.WriteFileAtomic(s.RegistryPath(), MarshalRegistry(names)); err != nil {
		return fmt.Errorf("failed to save file registry: %w", err)
	}
	return nil
}

// LoadRegistry returns the registered names. A missing registry is empty.
func (s *Store) LoadRegistry() ([]string, error) {
	exists, err := s.fileClient.IsFileExists(s.RegistryPath())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	data, err := s.fileClient.ReadFile(s.RegistryPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read file registry: %w", err)
	}
	return UnmarshalRegistry(data), nil
}
