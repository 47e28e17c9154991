package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/visualdex/internal/jobs"
	"github.com/vytor/visualdex/internal/models"
	"github.com/vytor/visualdex/internal/worker"
)

type chanTranslator chan models.TranslationResult

func (c chanTranslator) TranslateAndStore(_ context.Context, device string, sentences []string, source, target string) (*models.TranslationResult, error) {
	res := models.TranslationResult{Source: source, Target: target, Sentences: sentences}
	c <- res
	return &res, nil
}

func TestWorkerQueue_EnqueueTranslation(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	results := make(chanTranslator, 1)
	q := jobs.NewWorkerQueue(pool, results)

	sentences := []string{"This is a cup."}
	require.NoError(t, q.EnqueueTranslation("dev1", sentences, "en", "es"))
	sentences[0] = "changed after enqueue"

	select {
	case res := <-results:
		assert.Equal(t, []string{"This is a cup."}, res.Sentences)
		assert.Equal(t, "es", res.Target)
	case <-time.After(2 * time.Second):
		t.Fatal("translation job did not run")
	}
}

func TestWorkerQueue_StoppedPool(t *testing.T) {
	pool := worker.NewPool(1, 1)
	pool.Start(context.Background())
	pool.Stop()

	err := jobs.NewWorkerQueue(pool, make(chanTranslator, 1)).EnqueueTranslation("dev1", nil, "en", "es")
	assert.ErrorIs(t, err, worker.ErrPoolStopped)
}
