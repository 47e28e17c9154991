package kv

import (
	"context"

	"github.com/vytor/visualdex/internal/kvstore"
	"github.com/vytor/visualdex/internal/logger"
	"github.com/vytor/visualdex/internal/models"
	"github.com/vytor/visualdex/internal/repository"
)

type missionRepository struct {
	store kvstore.Store
}

// NewMissionRepository creates a new MissionRepository implementation
func NewMissionRepository(store kvstore.Store) repository.MissionRepository {
	return &missionRepository{store: store}
}

func (r *missionRepository) Load(ctx context.Context, device string) (models.MissionBatch, error) {
	batch, _, err := loadBlob[models.MissionBatch](ctx, r.store, deviceKey(device, KeyDailyMissions))
	if err != nil {
		return models.MissionBatch{}, err
	}
	return batch, nil
}

func (r *missionRepository) Save(ctx context.Context, device string, batch models.MissionBatch) error {
	log := logger.FromContext(ctx).WithPrefix("mission_repo")
	log.Debug("saving mission batch for %s: %d/%d completed", batch.Day, batch.CompletedCount(), len(batch.Missions))

	if err := saveBlob(ctx, r.store, deviceKey(device, KeyDailyMissions), batch); err != nil {
		log.Error("failed to save missions: %v", err)
		return err
	}
	return nil
}
