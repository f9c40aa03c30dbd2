package file

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileOperations defines methods for reading from and writing to files.
type FileOperations interface {
	IsFileExists(filePath string) (bool, error)
	ReadFile(filePath string) (string, error)
	ReadFileRaw(filePath string) ([]byte, error)
	ReadYamlFile(filePath string, v any) error
	ListDir(dirPath string) ([]string, error)
	EnsureDir(dirPath string) error
	WriteFileAtomic(filePath string, data []byte) error
	WriteJsonFile(filePath string, data any) error
}

// FileService implements the FileOperations interface using standard file operations.
type FileService struct{}

// NewFileService creates a new instance of FileService.
func NewFileService() *FileService {
	return &FileService{}
}

// IsFileExist checks if the file exists and returns boolean and error
func (fs *FileService) IsFileExists(filePath string) (bool, error) {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false, nil
	}

	// checking err == nil because of permission related error
	return err == nil, err
}

// ReadFile reads the contents of the file at filePath and returns it as a string.
func (fs *FileService) ReadFile(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadFileRaw reads the contents of the file at filePath and returns it as a byte array.
func (fs *FileService) ReadFileRaw(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// ReadYamlFile reads and unmarshals YAML data from the given file.
func (fs *FileService) ReadYamlFile(filePath string, v any) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	return decoder.Decode(v)
}

// ListDir returns the names of the regular files directly under dirPath.
func (fs *FileService) ListDir(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// EnsureDir creates dirPath and any missing parents.
func (fs *FileService) EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// WriteFileAtomic writes data to a temp file next to filePath and renames it
// into place, so readers see either the old or the new contents.
func (fs *FileService) WriteFileAtomic(filePath string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(filePath), filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return err
	}
	tempFile := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tempFile) // Clean up partial file
		return fmt.Errorf("error writing %s: %w", tempFile, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tempFile)
		return fmt.Errorf("error syncing %s: %w", tempFile, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	if err := os.Rename(tempFile, filePath); err != nil {
		os.Remove(tempFile)
		return err
	}
	return nil
}

// WriteJsonFile writes the JSON data to the file at filePath.
func (fs *FileService) WriteJsonFile(filePath string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return fs.WriteFileAtomic(filePath, append(payload, '\n'))
}
