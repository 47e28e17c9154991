package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/visualdex/internal/models"
)

// MockQuotaRepository is a mock implementation of repository.QuotaRepository
type MockQuotaRepository struct {
	mock.Mock
}

func (m *MockQuotaRepository) Load(ctx context.Context, device string) (models.QuotaState, error) {
	args := m.Called(ctx, device)
	return args.Get(0).(models.QuotaState), args.Error(1)
}

func (m *MockQuotaRepository) Save(ctx context.Context, device string, state models.QuotaState) error {
	args := m.Called(ctx, device, state)
	return args.Error(0)
}

// MockTranslationRepository is a mock implementation of repository.TranslationRepository
type MockTranslationRepository struct {
	mock.Mock
}

func (m *MockTranslationRepository) Latest(ctx context.Context, device string) (*models.TranslationResult, error) {
	args := m.Called(ctx, device)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TranslationResult), args.Error(1)
}

func (m *MockTranslationRepository) SaveLatest(ctx context.Context, device string, result models.TranslationResult) error {
	args := m.Called(ctx, device, result)
	return args.Error(0)
}
