package worker

import (
	"context"

	"github.com/vytor/visualdex/internal/models"
)

// Translator translates a batch and keeps the result for the device.
type Translator interface {
	TranslateAndStore(ctx context.Context, device string, sentences []string, source, target string) (*models.TranslationResult, error)
}

// TranslationPrefetchJob translates freshly generated sentences in the
// background so they are ready when the user asks for them.
type TranslationPrefetchJob struct {
	Translator Translator
	Device     string
	Sentences  []string
	Source     string
	Target     string
}

func (j *TranslationPrefetchJob) Name() string { return "translation_prefetch" }

func (j *TranslationPrefetchJob) Run(ctx context.Context) error {
	_, err := j.Translator.TranslateAndStore(ctx, j.Device, j.Sentences, j.Source, j.Target)
	return err
}
