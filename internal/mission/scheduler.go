// Package mission generates the daily mission batch and checks detections against it.
package mission

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/vytor/visualdex/internal/catalog"
	"github.com/vytor/visualdex/internal/models"
)

const (
	DefaultCount  = 3
	DefaultPoints = 50
)

// Scheduler draws missions from a catalog. It holds no per-user state; the
// batch is supplied by the caller and returned for the caller to persist.
type Scheduler struct {
	envs   []catalog.Environment
	count  int
	points int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewScheduler(envs []catalog.Environment, count, points int, rng *rand.Rand) *Scheduler {
	if count <= 0 {
		count = DefaultCount
	}
	if points < 0 {
		points = DefaultPoints
	}
	return &Scheduler{envs: envs, count: count, points: points, rng: rng}
}

// EnsureTodaysMissions returns batch unchanged when it belongs to now's
// calendar day and is non-empty. Otherwise it builds a fresh batch from one
// randomly chosen environment.
func (s *Scheduler) EnsureTodaysMissions(batch models.MissionBatch, now time.Time) models.MissionBatch {
	today := models.DayOf(now)
	if batch.Day == today && len(batch.Missions) > 0 {
		return batch
	}
	return models.MissionBatch{Day: today, Missions: s.generate()}
}

func (s *Scheduler) generate() []models.Mission {
	if len(s.envs) == 0 {
		return nil
	}

	s.mu.Lock()
	env := s.envs[s.rng.Intn(len(s.envs))]
	order := s.rng.Perm(len(env.Objects))
	s.mu.Unlock()

	missions := make([]models.Mission, 0, s.count)
	seen := make(map[string]bool, s.count)
	for _, i := range order {
		obj := models.NormalizeLabel(env.Objects[i])
		if seen[obj] {
			continue
		}
		seen[obj] = true
		missions = append(missions, models.Mission{
			ID:               fmt.Sprintf("mission_%d", len(missions)),
			EnvironmentKey:   env.Key,
			EnvironmentEmoji: env.Emoji,
			EnvironmentColor: env.Color,
			ObjectKey:        obj,
			PointsAward:      s.points,
		})
		if len(missions) == s.count {
			break
		}
	}
	return missions
}

// Evaluate completes the first incomplete mission whose object matches label.
// The input slice is never modified; awarded is nil when nothing matched.
func Evaluate(missions []models.Mission, label string, now time.Time) (updated []models.Mission, awarded *models.Mission) {
	key := models.NormalizeLabel(label)
	for i, m := range missions {
		if m.Completed || m.ObjectKey != key {
			continue
		}
		updated = append([]models.Mission(nil), missions...)
		at := now
		updated[i].Completed = true
		updated[i].CompletedAt = &at
		done := updated[i]
		return updated, &done
	}
	return missions, nil
}

// EvaluateTarget is Evaluate restricted to the mission with id. It reports
// whether that mission exists and is still open.
func EvaluateTarget(missions []models.Mission, id, label string, now time.Time) (updated []models.Mission, awarded *models.Mission, open bool) {
	for i, m := range missions {
		if m.ID != id {
			continue
		}
		if m.Completed {
			return missions, nil, false
		}
		if m.ObjectKey != models.NormalizeLabel(label) {
			return missions, nil, true
		}
		updated = append([]models.Mission(nil), missions...)
		at := now
		updated[i].Completed = true
		updated[i].CompletedAt = &at
		done := updated[i]
		return updated, &done, true
	}
	return missions, nil, false
}
