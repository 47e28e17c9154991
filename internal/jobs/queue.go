package jobs

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueTranslation(device string, sentences []string, source, target string) error
}
