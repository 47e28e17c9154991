package kv

import (
	"context"
	"errors"
	"strings"

	"github.com/vytor/visualdex/internal/kvstore"
	"github.com/vytor/visualdex/internal/logger"
	"github.com/vytor/visualdex/internal/repository"
)

type preferenceRepository struct {
	store kvstore.Store
}

// NewPreferenceRepository creates a new PreferenceRepository implementation.
// The language is stored as a bare string, not JSON.
func NewPreferenceRepository(store kvstore.Store) repository.PreferenceRepository {
	return &preferenceRepository{store: store}
}

func (r *preferenceRepository) Language(ctx context.Context, device string) (string, error) {
	v, err := r.store.Get(ctx, deviceKey(device, KeyAppLanguage))
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		logger.FromContext(ctx).WithPrefix("preference_repo").Error("failed to read language, using default: %v", err)
		return "", nil
	}
	return strings.TrimSpace(v), nil
}

func (r *preferenceRepository) SetLanguage(ctx context.Context, device, lang string) error {
	if err := r.store.Set(ctx, deviceKey(device, KeyAppLanguage), lang); err != nil {
		logger.FromContext(ctx).WithPrefix("preference_repo").Error("failed to save language: %v", err)
		return err
	}
	return nil
}
