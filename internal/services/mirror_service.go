package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/benmeehan/activity-heatmap/pkg/file"
	"github.com/benmeehan/activity-heatmap/pkg/s3"
	"github.com/rs/zerolog"
)

// ArtifactMirror copies persisted files somewhere else after a run.
type ArtifactMirror interface {
	Mirror(ctx context.Context, paths ...string) error
}

// ObjectStorageMirror uploads artifacts to an S3 bucket under a key prefix.
type ObjectStorageMirror struct {
	client     s3.ObjectStorageClient
	fileClient file.FileOperations
	bucket     string
	prefix     string
	logger     zerolog.Logger
}

// NewObjectStorageMirror creates an ObjectStorageMirror for a connected client.
func NewObjectStorageMirror(client s3.ObjectStorageClient, fileClient file.FileOperations, bucket, prefix string,
	logger zerolog.Logger) *ObjectStorageMirror {
	return &ObjectStorageMirror{
		client:     client,
		fileClient: fileClient,
		bucket:     bucket,
		prefix:     prefix,
		logger:     logger,
	}
}

// ObjectName returns the key a local path is uploaded to.
func (m *ObjectStorageMirror) ObjectName(localPath string) string {
	return path.Join(m.prefix, filepath.Base(localPath))
}

// Mirror uploads each path, stopping at the first failure.
func (m *ObjectStorageMirror) Mirror(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		data, err := m.fileClient.ReadFileRaw(p)
		if err != nil {
			return fmt.Errorf("failed to read %s for upload: %w", p, err)
		}

		objectName := m.ObjectName(p)
		size, err := m.client.UploadFile(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), "application/octet-stream")
		if err != nil {
			return err
		}

		m.logger.Info().
			Str("bucket", m.bucket).
			Str("object", objectName).
			Int64("size", size).
			Msg("Artifact mirrored")
	}
	return nil
}
