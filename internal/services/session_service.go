package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/vytor/visualdex/internal/catalog"
	"github.com/vytor/visualdex/internal/errors"
	"github.com/vytor/visualdex/internal/jobs"
	"github.com/vytor/visualdex/internal/learning"
	"github.com/vytor/visualdex/internal/logger"
	"github.com/vytor/visualdex/internal/mission"
	"github.com/vytor/visualdex/internal/models"
	"github.com/vytor/visualdex/internal/quota"
	"github.com/vytor/visualdex/internal/repository"
	"github.com/vytor/visualdex/internal/sentence"
	"github.com/vytor/visualdex/internal/vision"
)

// DefaultLanguage is used until a device picks one.
const DefaultLanguage = "en"

// CaptureInput is one capture event. Label, when set, skips vision.
type CaptureInput struct {
	Image     []byte
	Label     string
	Mode      models.CaptureMode
	MissionID string
}

// SessionService coordinates captures and owns every read and write of the
// per-device learning, mission, quota and progress state.
type SessionService interface {
	HandleCapture(ctx context.Context, device string, in CaptureInput) (*models.CaptureResult, error)
	TodaysMissions(ctx context.Context, device string) (*models.MissionBoard, error)
	QuotaStatus(ctx context.Context, device string) (models.QuotaStatus, error)
	Progress(ctx context.Context, device string) (models.ProgressTotals, error)
	Learning(ctx context.Context, device string) (models.LearningProfile, error)
	ResetLearning(ctx context.Context, device string) (int, error)
}

// SessionDeps wires a SessionService. JobQueue may be nil to disable
// translation prefetch; Now defaults to time.Now and Location to time.Local.
type SessionDeps struct {
	LearningRepo   repository.LearningRepository
	MissionRepo    repository.MissionRepository
	QuotaRepo      repository.QuotaRepository
	ProgressRepo   repository.ProgressRepository
	PreferenceRepo repository.PreferenceRepository

	Labeler   vision.Labeler
	Generator *sentence.Generator
	Scheduler *mission.Scheduler
	Guard     quota.Guard
	Catalog   *catalog.Catalog
	JobQueue  jobs.JobQueue

	Location *time.Location
	Now      func() time.Time
}

type sessionService struct {
	SessionDeps
	locks *deviceLocks
}

// NewSessionService creates a new SessionService
func NewSessionService(deps SessionDeps) SessionService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	return &sessionService{SessionDeps: deps, locks: newDeviceLocks()}
}

func (s *sessionService) now() time.Time {
	return s.Now().In(s.Location)
}

func (s *sessionService) HandleCapture(ctx context.Context, device string, in CaptureInput) (*models.CaptureResult, error) {
	log := logger.FromContext(ctx).WithPrefix("session").WithFields(map[string]any{
		"device": device,
		"mode":   string(in.Mode),
	})
	log.Debug("handling capture")

	if in.Mode == "" {
		in.Mode = models.ModeFree
	}
	if in.Mode != models.ModeFree && in.Mode != models.ModeMission {
		return nil, errors.NewValidationError("mode", "must be free or mission")
	}
	label := strings.TrimSpace(in.Label)
	if len(in.Image) == 0 && label == "" {
		return nil, errors.NewUnprocessableError("could not process the capture: no image data")
	}

	unlock := s.locks.lock(device)
	defer unlock()

	now := s.now()

	state, err := s.QuotaRepo.Load(ctx, device)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if !s.Guard.CanCapture(state, now) {
		var wait time.Duration
		if d := s.Guard.TimeUntilReset(state, now); d != nil {
			wait = *d
		}
		log.Info("capture blocked by quota, retry in %s", errors.FormatWait(wait))
		return nil, errors.NewQuotaExceededError(wait)
	}

	var batch models.MissionBatch
	if in.Mode == models.ModeMission {
		batch, err = s.loadTodaysBatch(ctx, device, now)
		if err != nil {
			return nil, err
		}
		if in.MissionID != "" {
			m, ok := batch.Find(in.MissionID)
			if !ok {
				return nil, errors.NewNotFoundError("mission", in.MissionID)
			}
			if m.Completed {
				return nil, errors.NewBadRequestError("mission already completed: " + in.MissionID)
			}
		}
	}

	progress, err := s.ProgressRepo.Load(ctx, device)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	if label == "" {
		label, err = s.Labeler.DetectLabel(ctx, in.Image)
		if err != nil || strings.TrimSpace(label) == "" {
			if err != nil && !stderrors.Is(err, vision.ErrNotFound) {
				log.Warn("labeler failed: %v", err)
			}
			log.Info("no object detected")
			return &models.CaptureResult{
				Outcome:  models.OutcomeNotFound,
				Progress: progress,
				Quota:    s.Guard.Status(state, now),
			}, nil
		}
		label = strings.TrimSpace(label)
	}
	log = log.WithField("label", models.NormalizeLabel(label))

	result := &models.CaptureResult{Label: label}
	switch in.Mode {
	case models.ModeMission:
		if err := s.evaluateMission(ctx, device, in.MissionID, label, now, batch, &progress, result); err != nil {
			return nil, err
		}
	default:
		if err := s.learnObject(ctx, device, label, now, result); err != nil {
			return nil, err
		}
	}

	// Only successfully handled photos count against the quota.
	if result.Outcome == models.OutcomeSentences || result.Outcome == models.OutcomeMissionCompleted {
		state = s.Guard.RecordCapture(state, now)
		if err := s.QuotaRepo.Save(ctx, device, state); err != nil {
			log.Error("failed to save quota: %v", err)
			return nil, errors.NewInternalError(err)
		}
	}

	result.Progress = progress
	result.Quota = s.Guard.Status(state, now)
	log.Info("capture handled: outcome=%s photos_used=%d", result.Outcome, state.PhotosUsedToday)
	return result, nil
}

func (s *sessionService) learnObject(ctx context.Context, device, label string, now time.Time, result *models.CaptureResult) error {
	log := logger.FromContext(ctx).WithPrefix("session")

	profile, err := s.LearningRepo.Load(ctx, device)
	if err != nil {
		return errors.NewInternalError(err)
	}

	generated := s.Generator.GenerateDetailed(label, profile.Frequency)

	updated := profile.Clone()
	entry := learning.Update(updated, label, generated.Sentences, now)
	if err := s.LearningRepo.Save(ctx, device, updated); err != nil {
		log.Error("failed to save learning data: %v", err)
		return errors.NewInternalError(err)
	}

	result.Outcome = models.OutcomeSentences
	result.Sentences = generated.Sentences
	result.Tier = generated.Tier
	result.Entry = &entry

	s.prefetchTranslation(ctx, device, generated.Sentences)
	return nil
}

func (s *sessionService) evaluateMission(ctx context.Context, device, missionID, label string, now time.Time, batch models.MissionBatch, progress *models.ProgressTotals, result *models.CaptureResult) error {
	log := logger.FromContext(ctx).WithPrefix("session")

	var (
		updated []models.Mission
		awarded *models.Mission
	)
	if missionID != "" {
		updated, awarded, _ = mission.EvaluateTarget(batch.Missions, missionID, label, now)
	} else {
		updated, awarded = mission.Evaluate(batch.Missions, label, now)
	}

	if awarded == nil {
		result.Outcome = models.OutcomeWrongObject
		result.AllCompleted = batch.AllCompleted()
		log.Info("label does not match an open mission")
		return nil
	}

	batch.Missions = updated
	if err := s.MissionRepo.Save(ctx, device, batch); err != nil {
		log.Error("failed to save missions: %v", err)
		return errors.NewInternalError(err)
	}

	progress.Points += awarded.PointsAward
	if batch.AllCompleted() {
		*progress = progress.CompleteDay(batch.Day)
	}
	if err := s.ProgressRepo.Save(ctx, device, *progress); err != nil {
		log.Error("failed to save progress: %v", err)
		return errors.NewInternalError(err)
	}

	result.Outcome = models.OutcomeMissionCompleted
	result.AwardedMission = awarded
	result.AllCompleted = batch.AllCompleted()
	log.Info("mission %s completed, +%d points", awarded.ID, awarded.PointsAward)
	return nil
}

// loadTodaysBatch returns today's missions, generating and saving a new batch
// when the stored one is from another day.
func (s *sessionService) loadTodaysBatch(ctx context.Context, device string, now time.Time) (models.MissionBatch, error) {
	stored, err := s.MissionRepo.Load(ctx, device)
	if err != nil {
		return models.MissionBatch{}, errors.NewInternalError(err)
	}

	batch := s.Scheduler.EnsureTodaysMissions(stored, now)
	if batch.Day != stored.Day || len(batch.Missions) != len(stored.Missions) {
		logger.FromContext(ctx).WithPrefix("session").Info("generated %d missions for %s", len(batch.Missions), batch.Day)
		if err := s.MissionRepo.Save(ctx, device, batch); err != nil {
			return models.MissionBatch{}, errors.NewInternalError(err)
		}
	}
	return batch, nil
}

func (s *sessionService) prefetchTranslation(ctx context.Context, device string, sentences []string) {
	if s.JobQueue == nil || len(sentences) == 0 {
		return
	}
	lang := s.language(ctx, device)
	if lang == DefaultLanguage {
		return
	}
	if err := s.JobQueue.EnqueueTranslation(device, sentences, DefaultLanguage, lang); err != nil {
		logger.FromContext(ctx).WithPrefix("session").Warn("translation prefetch not queued: %v", err)
	}
}

func (s *sessionService) language(ctx context.Context, device string) string {
	lang, err := s.PreferenceRepo.Language(ctx, device)
	if err != nil || lang == "" {
		return DefaultLanguage
	}
	return lang
}

func (s *sessionService) TodaysMissions(ctx context.Context, device string) (*models.MissionBoard, error) {
	log := logger.FromContext(ctx).WithPrefix("session").WithField("device", device)
	log.Debug("loading today's missions")

	unlock := s.locks.lock(device)
	defer unlock()

	now := s.now()
	batch, err := s.loadTodaysBatch(ctx, device, now)
	if err != nil {
		return nil, err
	}
	progress, err := s.ProgressRepo.Load(ctx, device)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	progress.StreakDays = progress.CurrentStreak(models.DayOf(now))

	lang := s.language(ctx, device)
	board := &models.MissionBoard{
		Day:          batch.Day,
		Language:     lang,
		Missions:     make([]models.MissionView, 0, len(batch.Missions)),
		Completed:    batch.CompletedCount(),
		Total:        len(batch.Missions),
		AllCompleted: batch.AllCompleted(),
		Progress:     progress,
	}
	for _, m := range batch.Missions {
		board.Missions = append(board.Missions, models.MissionView{
			Mission:         m,
			ObjectName:      s.Catalog.DisplayName(lang, m.ObjectKey),
			EnvironmentName: s.Catalog.DisplayName(lang, m.EnvironmentKey),
		})
	}
	return board, nil
}

func (s *sessionService) QuotaStatus(ctx context.Context, device string) (models.QuotaStatus, error) {
	state, err := s.QuotaRepo.Load(ctx, device)
	if err != nil {
		return models.QuotaStatus{}, errors.NewInternalError(err)
	}
	return s.Guard.Status(state, s.now()), nil
}

func (s *sessionService) Progress(ctx context.Context, device string) (models.ProgressTotals, error) {
	progress, err := s.ProgressRepo.Load(ctx, device)
	if err != nil {
		return models.ProgressTotals{}, errors.NewInternalError(err)
	}
	progress.StreakDays = progress.CurrentStreak(models.DayOf(s.now()))
	return progress, nil
}

func (s *sessionService) Learning(ctx context.Context, device string) (models.LearningProfile, error) {
	profile, err := s.LearningRepo.Load(ctx, device)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return profile, nil
}

func (s *sessionService) ResetLearning(ctx context.Context, device string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("session").WithField("device", device)

	unlock := s.locks.lock(device)
	defer unlock()

	profile, err := s.LearningRepo.Load(ctx, device)
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	if err := s.LearningRepo.Clear(ctx, device); err != nil {
		log.Error("failed to clear learning data: %v", err)
		return 0, errors.NewInternalError(err)
	}
	log.Info("learning data reset, %d entries removed", len(profile))
	return len(profile), nil
}
