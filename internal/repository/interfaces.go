package repository

import (
	"context"

	"github.com/vytor/visualdex/internal/models"
)

// Loads never fail on missing or unreadable data: the zero value is returned
// instead. They only return an error when ctx is done.

// LearningRepository handles the learned-objects mapping
type LearningRepository interface {
	Load(ctx context.Context, device string) (models.LearningProfile, error)
	Save(ctx context.Context, device string, profile models.LearningProfile) error
	Clear(ctx context.Context, device string) error
}

// MissionRepository handles the day's mission batch together with its day identity
type MissionRepository interface {
	Load(ctx context.Context, device string) (models.MissionBatch, error)
	Save(ctx context.Context, device string, batch models.MissionBatch) error
}

// QuotaRepository handles the capture quota state
type QuotaRepository interface {
	Load(ctx context.Context, device string) (models.QuotaState, error)
	Save(ctx context.Context, device string, state models.QuotaState) error
}

// ProgressRepository handles points and streak totals
type ProgressRepository interface {
	Load(ctx context.Context, device string) (models.ProgressTotals, error)
	Save(ctx context.Context, device string, totals models.ProgressTotals) error
}

// PreferenceRepository handles the selected UI language
type PreferenceRepository interface {
	Language(ctx context.Context, device string) (string, error)
	SetLanguage(ctx context.Context, device, lang string) error
}

// TranslationRepository keeps the most recent batch translation
type TranslationRepository interface {
	Latest(ctx context.Context, device string) (*models.TranslationResult, error)
	SaveLatest(ctx context.Context, device string, result models.TranslationResult) error
}
