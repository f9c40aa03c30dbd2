package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorageClient uploads generated artifacts to an S3 compatible store.
type ObjectStorageClient interface {
	Connect(endpoint string, accessKeyID string, secretAccessKey string, useSSL bool) error
	UploadFile(ctx context.Context, bucketName string, objectName string, content io.Reader, size int64, contentType string) (int64, error)
}

// ObjectStorage holds the object storage client instance
type ObjectStorage struct {
	Conn   *minio.Client
	Region string
}

// NewObjectStorage initialization
func NewObjectStorage(region string) *ObjectStorage {
	if region == "" {
		region = "us-east-1"
	}
	return &ObjectStorage{Region: region}
}

// Connect establishes the object storage connection using client
func (o *ObjectStorage) Connect(endpoint string, accessKeyID string, secretAccessKey string, useSSL bool) error {
	var err error
	o.Conn, err = minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
		Region: o.Region,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}

	return nil
}

// UploadFile stores content under bucketName/objectName, creating the bucket
// when it does not exist yet. Existing objects are overwritten.
func (o *ObjectStorage) UploadFile(ctx context.Context, bucketName string, objectName string, content io.Reader, size int64, contentType string) (int64, error) {
	if o.Conn == nil {
		return 0, fmt.Errorf("object storage is not connected")
	}

	exists, err := o.Conn.BucketExists(ctx, bucketName)
	if err != nil {
		return 0, fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	if !exists {
		if err := o.Conn.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: o.Region}); err != nil {
			return 0, fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
		}
	}

	info, err := o.Conn.PutObject(ctx, bucketName, objectName, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upload %s: %w", objectName, err)
	}

	return info.Size, nil
}
