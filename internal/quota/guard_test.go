package quota_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/visualdex/internal/models"
	"github.com/vytor/visualdex/internal/quota"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func guard() quota.Guard { return quota.NewGuard(10, 12*time.Hour) }

func TestRecordCapture_TenthCaptureStartsCooldown(t *testing.T) {
	g := guard()
	state := models.QuotaState{}

	for i := 0; i < 10; i++ {
		require.True(t, g.CanCapture(state, base), "capture %d", i+1)
		state = g.RecordCapture(state, base)
	}

	assert.Equal(t, 10, state.PhotosUsedToday)
	require.NotNil(t, state.CooldownUntil)
	assert.Equal(t, base.Add(12*time.Hour), *state.CooldownUntil)
	assert.False(t, g.CanCapture(state, base))
	assert.False(t, g.CanCapture(state, base.Add(12*time.Hour-time.Second)))
	assert.True(t, g.CanCapture(state, base.Add(12*time.Hour)))
}

func TestCanCapture_CooldownIgnoresDayRollover(t *testing.T) {
	g := guard()
	evening := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	until := evening.Add(12 * time.Hour)
	state := models.QuotaState{PhotosUsedToday: 10, Day: models.DayOf(evening), CooldownUntil: &until}

	// 02:00 next day: new calendar day but the cooldown is still running.
	assert.False(t, g.CanCapture(state, evening.Add(6*time.Hour)))
	assert.True(t, g.CanCapture(state, until))
}

func TestCanCapture_CooldownElapsedSameDay(t *testing.T) {
	g := guard()
	state := models.QuotaState{}
	for i := 0; i < 10; i++ {
		state = g.RecordCapture(state, base)
	}

	late := base.Add(13 * time.Hour) // 22:00, same day, cooldown ended at 21:00
	assert.True(t, g.CanCapture(state, late))
	assert.Nil(t, g.TimeUntilReset(state, late))

	st := g.Status(state, late)
	assert.True(t, st.CanCapture)
	assert.Equal(t, 0, st.PhotosUsed)
	assert.Equal(t, 10, st.Remaining)
	assert.Zero(t, st.RetryAfterSeconds)

	next := g.RecordCapture(state, late)
	assert.Equal(t, 1, next.PhotosUsedToday)
	assert.Nil(t, next.CooldownUntil)
}

func TestTimeUntilReset_NeverNegative(t *testing.T) {
	g := guard()
	until := base.Add(time.Hour)
	state := models.QuotaState{PhotosUsedToday: 10, Day: models.DayOf(base), CooldownUntil: &until}

	for _, at := range []time.Duration{0, 30 * time.Minute, 59 * time.Minute} {
		wait := g.TimeUntilReset(state, base.Add(at))
		require.NotNil(t, wait)
		assert.Positive(t, *wait)
	}
	assert.Nil(t, g.TimeUntilReset(state, base.Add(3*time.Hour)))
}

func TestCanCapture_NewDayWithoutCooldown(t *testing.T) {
	g := guard()
	state := models.QuotaState{PhotosUsedToday: 10, Day: models.DayOf(base)}

	assert.False(t, g.CanCapture(state, base))
	assert.True(t, g.CanCapture(state, base.AddDate(0, 0, 1)))
}

func TestRecordCapture_ResetsOnNewDay(t *testing.T) {
	g := guard()
	state := models.QuotaState{PhotosUsedToday: 4, Day: models.DayOf(base)}

	next := g.RecordCapture(state, base.AddDate(0, 0, 1))

	assert.Equal(t, 1, next.PhotosUsedToday)
	assert.Equal(t, models.DayOf(base.AddDate(0, 0, 1)), next.Day)
	assert.Equal(t, 4, state.PhotosUsedToday, "input state is not modified")
}

func TestRecordCapture_ClearsElapsedCooldown(t *testing.T) {
	g := guard()
	until := base.Add(12 * time.Hour)
	state := models.QuotaState{PhotosUsedToday: 10, Day: models.DayOf(base), CooldownUntil: &until}

	next := g.RecordCapture(state, until.Add(time.Minute))

	assert.Nil(t, next.CooldownUntil)
	assert.Equal(t, 1, next.PhotosUsedToday)
}

func TestTimeUntilReset(t *testing.T) {
	g := guard()
	assert.Nil(t, g.TimeUntilReset(models.QuotaState{}, base))

	until := base.Add(12 * time.Hour)
	state := models.QuotaState{PhotosUsedToday: 10, Day: models.DayOf(base), CooldownUntil: &until}

	wait := g.TimeUntilReset(state, base.Add(30*time.Minute))
	require.NotNil(t, wait)
	assert.Equal(t, 11*time.Hour+30*time.Minute, *wait)

	assert.Nil(t, g.TimeUntilReset(state, until))
}

func TestStatus(t *testing.T) {
	g := guard()
	state := models.QuotaState{}
	for i := 0; i < 3; i++ {
		state = g.RecordCapture(state, base)
	}

	st := g.Status(state, base)
	assert.True(t, st.CanCapture)
	assert.Equal(t, 3, st.PhotosUsed)
	assert.Equal(t, 7, st.Remaining)
	assert.Equal(t, 10, st.Limit)
	assert.Zero(t, st.RetryAfterSeconds)

	for i := 0; i < 7; i++ {
		state = g.RecordCapture(state, base)
	}
	st = g.Status(state, base.Add(time.Hour))
	assert.False(t, st.CanCapture)
	assert.Equal(t, 0, st.Remaining)
	assert.Equal(t, int64((11 * time.Hour).Seconds()), st.RetryAfterSeconds)
	assert.Equal(t, "11h 0m", st.RetryAfter)
}

func TestNewGuard_Defaults(t *testing.T) {
	g := quota.NewGuard(0, 0)

	assert.Equal(t, quota.DefaultLimit, g.Limit)
	assert.Equal(t, quota.DefaultCooldown, g.Cooldown)
}
