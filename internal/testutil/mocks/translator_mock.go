package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockBatchTranslator is a mock implementation of services.BatchTranslator
type MockBatchTranslator struct {
	mock.Mock
}

func (m *MockBatchTranslator) TranslateAll(ctx context.Context, sentences []string, source, target string) []string {
	args := m.Called(ctx, sentences, source, target)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}
