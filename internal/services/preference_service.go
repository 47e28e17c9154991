package services

import (
	"context"
	"strings"

	"github.com/vytor/visualdex/internal/catalog"
	"github.com/vytor/visualdex/internal/errors"
	"github.com/vytor/visualdex/internal/logger"
	"github.com/vytor/visualdex/internal/repository"
)

// PreferenceService handles the selected UI language
type PreferenceService interface {
	Language(ctx context.Context, device string) (string, error)
	SetLanguage(ctx context.Context, device, lang string) (string, error)
	Languages() []string
}

type preferenceService struct {
	repo    repository.PreferenceRepository
	catalog *catalog.Catalog
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(repo repository.PreferenceRepository, c *catalog.Catalog) PreferenceService {
	return &preferenceService{repo: repo, catalog: c}
}

func (s *preferenceService) Language(ctx context.Context, device string) (string, error) {
	lang, err := s.repo.Language(ctx, device)
	if err != nil {
		return "", errors.NewInternalError(err)
	}
	if !s.supported(lang) {
		return DefaultLanguage, nil
	}
	return lang, nil
}

func (s *preferenceService) SetLanguage(ctx context.Context, device, lang string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("preferences").WithField("device", device)

	lang = strings.ToLower(strings.TrimSpace(lang))
	if !s.supported(lang) {
		return "", errors.NewValidationError("language", "must be one of "+strings.Join(s.Languages(), ", "))
	}
	if err := s.repo.SetLanguage(ctx, device, lang); err != nil {
		log.Error("failed to save language: %v", err)
		return "", errors.NewInternalError(err)
	}
	log.Info("language set to %s", lang)
	return lang, nil
}

func (s *preferenceService) Languages() []string {
	return s.catalog.Languages()
}

func (s *preferenceService) supported(lang string) bool {
	for _, l := range s.catalog.Languages() {
		if l == lang {
			return true
		}
	}
	return false
}
