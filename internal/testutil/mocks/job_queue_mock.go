package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueTranslation(device string, sentences []string, source, target string) error {
	args := m.Called(device, sentences, source, target)
	return args.Error(0)
}
