package services

import (
	"context"
	"strings"
	"time"

	"github.com/vytor/visualdex/internal/errors"
	"github.com/vytor/visualdex/internal/logger"
	"github.com/vytor/visualdex/internal/models"
	"github.com/vytor/visualdex/internal/repository"
	"github.com/vytor/visualdex/internal/translation"
	"github.com/vytor/visualdex/internal/worker"
)

// MaxTranslationBatch bounds one request; the batch runs sequentially with a delay per item.
const MaxTranslationBatch = 20

// BatchTranslator is implemented by translation.Cascade.
type BatchTranslator interface {
	TranslateAll(ctx context.Context, sentences []string, source, target string) []string
}

// TranslationService handles batch translation business logic
type TranslationService interface {
	Translate(ctx context.Context, device string, sentences []string, source, target string) (*models.TranslationResult, error)
	TranslateAndStore(ctx context.Context, device string, sentences []string, source, target string) (*models.TranslationResult, error)
	Latest(ctx context.Context, device string) (*models.TranslationResult, error)
}

type translationService struct {
	translator   BatchTranslator
	repo         repository.TranslationRepository
	batchTimeout time.Duration
}

// TranslationOption configures a TranslationService.
type TranslationOption func(*translationService)

// WithBatchTimeout bounds the time one batch may spend in the translator.
// Once it passes, the remaining sentences are answered locally.
func WithBatchTimeout(d time.Duration) TranslationOption {
	return func(s *translationService) {
		s.batchTimeout = d
	}
}

var _ worker.Translator = (TranslationService)(nil)

// NewTranslationService creates a new TranslationService
func NewTranslationService(translator BatchTranslator, repo repository.TranslationRepository, opts ...TranslationOption) TranslationService {
	s := &translationService{translator: translator, repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *translationService) Translate(ctx context.Context, device string, sentences []string, source, target string) (*models.TranslationResult, error) {
	if len(sentences) == 0 {
		return nil, errors.NewValidationError("sentences", "cannot be empty")
	}
	if len(sentences) > MaxTranslationBatch {
		return nil, errors.NewValidationError("sentences", "too many sentences")
	}
	if strings.TrimSpace(target) == "" {
		return nil, errors.NewValidationError("target", "cannot be empty")
	}
	return s.TranslateAndStore(ctx, device, sentences, source, target)
}

// TranslateAndStore translates sentences and keeps the result as the
// device's latest translation. Translation itself never fails.
func (s *translationService) TranslateAndStore(ctx context.Context, device string, sentences []string, source, target string) (*models.TranslationResult, error) {
	log := logger.FromContext(ctx).WithPrefix("translation").WithField("device", device)
	if source == "" {
		source = translation.DefaultSource
	}
	source = strings.ToLower(source)
	target = strings.ToLower(target)
	log.Debug("translating %d sentences %s->%s", len(sentences), source, target)

	batchCtx := ctx
	if s.batchTimeout > 0 {
		var cancel context.CancelFunc
		batchCtx, cancel = context.WithTimeout(ctx, s.batchTimeout)
		defer cancel()
	}

	result := models.TranslationResult{
		Source:       source,
		Target:       target,
		Sentences:    append([]string(nil), sentences...),
		Translations: s.translator.TranslateAll(batchCtx, sentences, source, target),
	}

	if err := s.repo.SaveLatest(ctx, device, result); err != nil {
		log.Warn("failed to keep latest translation: %v", err)
	}
	return &result, nil
}

func (s *translationService) Latest(ctx context.Context, device string) (*models.TranslationResult, error) {
	result, err := s.repo.Latest(ctx, device)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if result == nil {
		return nil, errors.NewNotFoundError("translation", device)
	}
	return result, nil
}
