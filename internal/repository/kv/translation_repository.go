package kv

import (
	"context"

	"github.com/vytor/visualdex/internal/kvstore"
	"github.com/vytor/visualdex/internal/logger"
	"github.com/vytor/visualdex/internal/models"
	"github.com/vytor/visualdex/internal/repository"
)

type translationRepository struct {
	store kvstore.Store
}

// NewTranslationRepository creates a new TranslationRepository implementation
func NewTranslationRepository(store kvstore.Store) repository.TranslationRepository {
	return &translationRepository{store: store}
}

func (r *translationRepository) Latest(ctx context.Context, device string) (*models.TranslationResult, error) {
	result, found, err := loadBlob[models.TranslationResult](ctx, r.store, deviceKey(device, KeyLatestTranslation))
	if err != nil || !found {
		return nil, err
	}
	return &result, nil
}

func (r *translationRepository) SaveLatest(ctx context.Context, device string, result models.TranslationResult) error {
	if err := saveBlob(ctx, r.store, deviceKey(device, KeyLatestTranslation), result); err != nil {
		logger.FromContext(ctx).WithPrefix("translation_repo").Error("failed to save translation: %v", err)
		return err
	}
	return nil
}
