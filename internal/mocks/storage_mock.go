package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockObjectStorage is a mock implementation of the ObjectStorageClient interface
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Connect(endpoint string, accessKeyID string, secretAccessKey string, useSSL bool) error {
	args := m.Called(endpoint, accessKeyID, secretAccessKey, useSSL)
	return args.Error(0)
}

func (m *MockObjectStorage) UploadFile(ctx context.Context, bucketName string, objectName string, content io.Reader, size int64, contentType string) (int64, error) {
	args := m.Called(ctx, bucketName, objectName, content, size, contentType)
	return args.Get(0).(int64), args.Error(1)
}
