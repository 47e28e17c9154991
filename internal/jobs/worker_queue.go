package jobs

import (
	"github.com/vytor/visualdex/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	translationPool *worker.Pool
	translator      worker.Translator
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(translationPool *worker.Pool, translator worker.Translator) JobQueue {
	return &WorkerQueue{
		translationPool: translationPool,
		translator:      translator,
	}
}

func (q *WorkerQueue) EnqueueTranslation(device string, sentences []string, source, target string) error {
	return q.translationPool.Submit(&worker.TranslationPrefetchJob{
		Translator: q.translator,
		Device:     device,
		Sentences:  append([]string(nil), sentences...),
		Source:     source,
		Target:     target,
	})
}
