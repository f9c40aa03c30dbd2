package mocks

import (
	"github.com/benmeehan/activity-heatmap/pkg/activity"
	"github.com/stretchr/testify/mock"
)

// MockDecoder is a mock implementation of the activity.Decoder interface
type MockDecoder struct {
	mock.Mock
}

func (m *MockDecoder) Decode(path string) (activity.Table, error) {
	args := m.Called(path)
	return args.Get(0).(activity.Table), args.Error(1)
}
