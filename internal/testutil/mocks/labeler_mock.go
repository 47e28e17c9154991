package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockLabeler is a mock implementation of vision.Labeler
type MockLabeler struct {
	mock.Mock
}

func (m *MockLabeler) DetectLabel(ctx context.Context, image []byte) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}
