package kv

import (
	"context"

	"github.com/vytor/visualdex/internal/kvstore"
	"github.com/vytor/visualdex/internal/logger"
	"github.com/vytor/visualdex/internal/models"
	"github.com/vytor/visualdex/internal/repository"
)

type learningRepository struct {
	store kvstore.Store
}

// NewLearningRepository creates a new LearningRepository implementation
func NewLearningRepository(store kvstore.Store) repository.LearningRepository {
	return &learningRepository{store: store}
}

func (r *learningRepository) Load(ctx context.Context, device string) (models.LearningProfile, error) {
	profile, _, err := loadBlob[models.LearningProfile](ctx, r.store, deviceKey(device, KeyLearningData))
	if err != nil {
		return models.LearningProfile{}, err
	}
	// Entries keyed by a non-normalized label are merged into the normalized key.
	out := make(models.LearningProfile, len(profile))
	for k, v := range profile {
		key := models.NormalizeLabel(k)
		if key == "" || v.Frequency < 1 {
			continue
		}
		if prev, ok := out[key]; ok && prev.Frequency > v.Frequency {
			continue
		}
		out[key] = v
	}
	return out, nil
}

func (r *learningRepository) Save(ctx context.Context, device string, profile models.LearningProfile) error {
	log := logger.FromContext(ctx).WithPrefix("learning_repo")
	log.Debug("saving %d learning entries", len(profile))

	if profile == nil {
		profile = models.LearningProfile{}
	}
	if err := saveBlob(ctx, r.store, deviceKey(device, KeyLearningData), profile); err != nil {
		log.Error("failed to save learning data: %v", err)
		return err
	}
	return nil
}

func (r *learningRepository) Clear(ctx context.Context, device string) error {
	logger.FromContext(ctx).WithPrefix("learning_repo").Info("clearing learning data")
	return r.store.Remove(ctx, deviceKey(device, KeyLearningData))
}
