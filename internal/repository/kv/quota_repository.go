package kv

import (
	"context"

	"github.com/vytor/visualdex/internal/kvstore"
	"github.com/vytor/visualdex/internal/logger"
	"github.com/vytor/visualdex/internal/models"
	"github.com/vytor/visualdex/internal/repository"
)

type quotaRepository struct {
	store kvstore.Store
}

// NewQuotaRepository creates a new QuotaRepository implementation
func NewQuotaRepository(store kvstore.Store) repository.QuotaRepository {
	return &quotaRepository{store: store}
}

func (r *quotaRepository) Load(ctx context.Context, device string) (models.QuotaState, error) {
	state, _, err := loadBlob[models.QuotaState](ctx, r.store, deviceKey(device, KeyQuotaState))
	if err != nil {
		return models.QuotaState{}, err
	}
	if state.PhotosUsedToday < 0 {
		state.PhotosUsedToday = 0
	}
	return state, nil
}

func (r *quotaRepository) Save(ctx context.Context, device string, state models.QuotaState) error {
	log := logger.FromContext(ctx).WithPrefix("quota_repo")
	log.Debug("saving quota: used=%d day=%s", state.PhotosUsedToday, state.Day)

	if err := saveBlob(ctx, r.store, deviceKey(device, KeyQuotaState), state); err != nil {
		log.Error("failed to save quota: %v", err)
		return err
	}
	return nil
}
