package kv_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/visualdex/internal/kvstore"
	"github.com/vytor/visualdex/internal/learning"
	"github.com/vytor/visualdex/internal/models"
	"github.com/vytor/visualdex/internal/repository/kv"
	"github.com/vytor/visualdex/internal/testutil"
)

var now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestLearningRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewLearningRepository(testutil.NewTestStore(t))

	profile := models.LearningProfile{}
	for i := 0; i < 7; i++ {
		learning.Update(profile, "Cup", []string{"This is a cup.", "I can drink from the cup."}, now)
	}
	learning.Update(profile, "lamp", []string{"This lamp is bright and it lights the whole living room at night."}, now)

	require.NoError(t, repo.Save(ctx, "dev1", profile))
	loaded, err := repo.Load(ctx, "dev1")
	require.NoError(t, err)

	require.Len(t, loaded, len(profile))
	for key, entry := range profile {
		got, ok := loaded[key]
		require.True(t, ok, key)
		assert.Equal(t, entry.Frequency, got.Frequency, key)
		assert.Equal(t, entry.Patterns.Complexity, got.Patterns.Complexity, key)
		assert.Equal(t, entry.Patterns.CommonWords, got.Patterns.CommonWords, key)
		assert.True(t, entry.LastSeen.Equal(got.LastSeen), key)
	}
}

func TestLearningRepository_MissingAndCorruptAreEmpty(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	repo := kv.NewLearningRepository(store)

	loaded, err := repo.Load(ctx, "dev1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
	assert.NotNil(t, loaded)

	require.NoError(t, store.Set(ctx, "dev1:learningData", `{"cup": {"frequency": "many"`))
	loaded, err = repo.Load(ctx, "dev1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLearningRepository_NormalizesStoredKeys(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	require.NoError(t, store.Set(ctx, "dev1:learningData", `{"Cup ":{"frequency":3},"ghost":{"frequency":0}}`))

	loaded, err := kv.NewLearningRepository(store).Load(ctx, "dev1")
	require.NoError(t, err)

	assert.Equal(t, 3, loaded.Frequency("cup"))
	assert.NotContains(t, loaded, "ghost")
}

func TestLearningRepository_Clear(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewLearningRepository(testutil.NewTestStore(t))

	profile := models.LearningProfile{}
	learning.Update(profile, "cup", []string{"a cup"}, now)
	require.NoError(t, repo.Save(ctx, "dev1", profile))
	require.NoError(t, repo.Save(ctx, "dev2", profile))

	require.NoError(t, repo.Clear(ctx, "dev1"))

	loaded, err := repo.Load(ctx, "dev1")
	require.NoError(t, err)
	assert.Empty(t, loaded)

	other, err := repo.Load(ctx, "dev2")
	require.NoError(t, err)
	assert.Len(t, other, 1, "other devices are untouched")
}

func TestMissionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMissionRepository(testutil.NewTestStore(t))

	done := now.Add(time.Hour)
	batch := models.MissionBatch{
		Day: models.DayOf(now),
		Missions: []models.Mission{
			{ID: "mission_0", EnvironmentKey: "kitchen", ObjectKey: "cup", PointsAward: 50, Completed: true, CompletedAt: &done},
			{ID: "mission_1", EnvironmentKey: "kitchen", ObjectKey: "plate", PointsAward: 50},
		},
	}
	require.NoError(t, repo.Save(ctx, "dev1", batch))

	loaded, err := repo.Load(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, batch.Day, loaded.Day)
	require.Len(t, loaded.Missions, 2)
	assert.True(t, loaded.Missions[0].Completed)
	require.NotNil(t, loaded.Missions[0].CompletedAt)
	assert.True(t, done.Equal(*loaded.Missions[0].CompletedAt))
	assert.Nil(t, loaded.Missions[1].CompletedAt)
}

func TestQuotaRepository_RoundTripAndCorrupt(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	repo := kv.NewQuotaRepository(store)

	until := now.Add(12 * time.Hour)
	require.NoError(t, repo.Save(ctx, "dev1", models.QuotaState{PhotosUsedToday: 10, Day: models.DayOf(now), CooldownUntil: &until}))

	state, err := repo.Load(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, 10, state.PhotosUsedToday)
	require.NotNil(t, state.CooldownUntil)
	assert.True(t, until.Equal(*state.CooldownUntil))

	require.NoError(t, store.Set(ctx, "dev1:quotaState", "not json"))
	state, err = repo.Load(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, models.QuotaState{}, state)
}

func TestProgressRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewProgressRepository(testutil.NewTestStore(t))

	totals := models.ProgressTotals{Points: 150, StreakDays: 2, LastCompletedDay: models.DayOf(now)}
	require.NoError(t, repo.Save(ctx, "dev1", totals))

	loaded, err := repo.Load(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, totals, loaded)
}

func TestPreferenceRepository(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	repo := kv.NewPreferenceRepository(store)

	lang, err := repo.Language(ctx, "dev1")
	require.NoError(t, err)
	assert.Empty(t, lang)

	require.NoError(t, repo.SetLanguage(ctx, "dev1", "es"))
	lang, err = repo.Language(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, "es", lang)

	raw, err := store.Get(ctx, "dev1:appLanguage")
	require.NoError(t, err)
	assert.Equal(t, "es", raw, "stored as a bare string")
}

func TestTranslationRepository(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewTranslationRepository(testutil.NewTestStore(t))

	latest, err := repo.Latest(ctx, "dev1")
	require.NoError(t, err)
	assert.Nil(t, latest)

	result := models.TranslationResult{Source: "en", Target: "es", Sentences: []string{"a cup"}, Translations: []string{"una taza"}}
	require.NoError(t, repo.SaveLatest(ctx, "dev1", result))

	latest, err = repo.Latest(ctx, "dev1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, result, *latest)
}

type brokenStore struct{ kvstore.Store }

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("disk I/O error")
}

func TestLoad_ReadFailureIsAbsent(t *testing.T) {
	store := brokenStore{Store: kvstore.NewMemoryStore()}

	batch, err := kv.NewMissionRepository(store).Load(context.Background(), "dev1")
	require.NoError(t, err)
	assert.Empty(t, batch.Missions)

	lang, err := kv.NewPreferenceRepository(store).Language(context.Background(), "dev1")
	require.NoError(t, err)
	assert.Empty(t, lang)
}

func TestLoad_CancelledContextFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := brokenStore{Store: kvstore.NewMemoryStore()}

	_, err := kv.NewQuotaRepository(store).Load(ctx, "dev1")
	assert.ErrorIs(t, err, context.Canceled)
}
