// Package kv implements the repositories as JSON blobs in a kvstore.Store,
// one key per entity per device.
package kv

import (
	"context"
	"errors"

	"github.com/vytor/visualdex/internal/codec"
	"github.com/vytor/visualdex/internal/kvstore"
	"github.com/vytor/visualdex/internal/logger"
)

// Blob names, stored as "<device>:<name>".
const (
	KeyLearningData      = "learningData"
	KeyDailyMissions     = "dailyMissions"
	KeyQuotaState        = "quotaState"
	KeyUserProgress      = "userProgress"
	KeyAppLanguage       = "appLanguage"
	KeyLatestTranslation = "latestTranslation"
)

func deviceKey(device, name string) string {
	return device + ":" + name
}

// loadBlob decodes the blob at key. found is false for a missing, unreadable
// or corrupt blob, and the zero T is returned.
func loadBlob[T any](ctx context.Context, store kvstore.Store, key string) (value T, found bool, err error) {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")

	raw, err := store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		log.Debug("no blob at %s", key)
		return value, false, nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return value, false, ctxErr
		}
		log.Error("failed to read %s, treating as absent: %v", key, err)
		return value, false, nil
	}

	var decoded T
	if err := codec.JSON.UnmarshalFromString(raw, &decoded); err != nil {
		log.Warn("corrupt blob at %s, treating as absent: %v", key, err)
		return value, false, nil
	}
	return decoded, true, nil
}

func saveBlob(ctx context.Context, store kvstore.Store, key string, v any) error {
	raw, err := codec.JSON.MarshalToString(v)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("kv_repo").Error("failed to encode %s: %v", key, err)
		return err
	}
	return store.Set(ctx, key, raw)
}
