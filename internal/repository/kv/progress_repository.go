package kv

import (
	"context"

	"github.com/vytor/visualdex/internal/kvstore"
	"github.com/vytor/visualdex/internal/logger"
	"github.com/vytor/visualdex/internal/models"
	"github.com/vytor/visualdex/internal/repository"
)

type progressRepository struct {
	store kvstore.Store
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(store kvstore.Store) repository.ProgressRepository {
	return &progressRepository{store: store}
}

func (r *progressRepository) Load(ctx context.Context, device string) (models.ProgressTotals, error) {
	totals, _, err := loadBlob[models.ProgressTotals](ctx, r.store, deviceKey(device, KeyUserProgress))
	if err != nil {
		return models.ProgressTotals{}, err
	}
	if totals.Points < 0 {
		totals.Points = 0
	}
	if totals.StreakDays < 0 {
		totals.StreakDays = 0
	}
	return totals, nil
}

func (r *progressRepository) Save(ctx context.Context, device string, totals models.ProgressTotals) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("saving progress: points=%d streak=%d", totals.Points, totals.StreakDays)

	if err := saveBlob(ctx, r.store, deviceKey(device, KeyUserProgress), totals); err != nil {
		log.Error("failed to save progress: %v", err)
		return err
	}
	return nil
}
