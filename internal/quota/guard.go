// Package quota enforces the daily capture limit and its cooldown.
package quota

import (
	"time"

	"github.com/vytor/visualdex/internal/errors"
	"github.com/vytor/visualdex/internal/models"
)

const (
	DefaultLimit    = 10
	DefaultCooldown = 12 * time.Hour
)

// Guard is a pure policy over QuotaState. Counters roll over by calendar day;
// the cooldown is an absolute instant and ignores day boundaries.
type Guard struct {
	Limit    int
	Cooldown time.Duration
}

func NewGuard(limit int, cooldown time.Duration) Guard {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return Guard{Limit: limit, Cooldown: cooldown}
}

// CanCapture reports whether a capture is allowed at now. An elapsed cooldown
// resets the counter even within the same day.
func (g Guard) CanCapture(state models.QuotaState, now time.Time) bool {
	next := g.rollover(state, now)
	return !cooling(next, now) && next.PhotosUsedToday < g.Limit
}

// RecordCapture returns state with one more capture counted at now.
func (g Guard) RecordCapture(state models.QuotaState, now time.Time) models.QuotaState {
	next := g.rollover(state, now)
	next.PhotosUsedToday++
	if next.PhotosUsedToday >= g.Limit {
		until := now.Add(g.Cooldown)
		next.CooldownUntil = &until
	}
	return next
}

// TimeUntilReset is nil while capturing is allowed, otherwise the wait until
// the cooldown ends.
func (g Guard) TimeUntilReset(state models.QuotaState, now time.Time) *time.Duration {
	if g.CanCapture(state, now) {
		return nil
	}
	next := g.rollover(state, now)
	var d time.Duration
	if cooling(next, now) {
		d = next.CooldownUntil.Sub(now)
	} else {
		// Limit reached without a cooldown recorded: wait for the next day.
		y, m, day := now.Date()
		d = time.Date(y, m, day+1, 0, 0, 0, 0, now.Location()).Sub(now)
	}
	return &d
}

// Remaining is how many captures are left today.
func (g Guard) Remaining(state models.QuotaState, now time.Time) int {
	next := g.rollover(state, now)
	if cooling(next, now) {
		return 0
	}
	used := next.PhotosUsedToday
	if used >= g.Limit {
		return 0
	}
	return g.Limit - used
}

// Status is the caller-facing view of state at now.
func (g Guard) Status(state models.QuotaState, now time.Time) models.QuotaStatus {
	view := g.rollover(state, now)
	st := models.QuotaStatus{
		CanCapture:    g.CanCapture(state, now),
		PhotosUsed:    view.PhotosUsedToday,
		Remaining:     g.Remaining(state, now),
		Limit:         g.Limit,
		CooldownUntil: view.CooldownUntil,
	}
	if wait := g.TimeUntilReset(state, now); wait != nil {
		st.RetryAfterSeconds = int64(wait.Round(time.Second) / time.Second)
		st.RetryAfter = errors.FormatWait(*wait)
	}
	return st
}

// rollover clears an elapsed cooldown and resets the counter when the day
// changed or the cooldown has run out.
func (g Guard) rollover(state models.QuotaState, now time.Time) models.QuotaState {
	next := state
	today := models.DayOf(now)
	if next.CooldownUntil != nil && !now.Before(*next.CooldownUntil) {
		next.CooldownUntil = nil
		next.PhotosUsedToday = 0
	}
	if next.Day != today {
		next.Day = today
		next.PhotosUsedToday = 0
	}
	if next.CooldownUntil != nil {
		until := *next.CooldownUntil
		next.CooldownUntil = &until
	}
	return next
}

func cooling(state models.QuotaState, now time.Time) bool {
	return state.CooldownUntil != nil && now.Before(*state.CooldownUntil)
}
