package models

type ProgressTotals struct {
	Points           int    `json:"points"`
	StreakDays       int    `json:"streakDays"`
	LastCompletedDay DayKey `json:"lastCompletedDay,omitempty"`
}

// CompleteDay records that every mission of today was finished. The streak
// grows when the previous completed day was yesterday and restarts at 1
// otherwise. Repeated calls for the same day change nothing.
func (p ProgressTotals) CompleteDay(today DayKey) ProgressTotals {
	if p.LastCompletedDay == today {
		return p
	}
	if p.LastCompletedDay != "" && p.LastCompletedDay == today.Previous() {
		p.StreakDays++
	} else {
		p.StreakDays = 1
	}
	p.LastCompletedDay = today
	return p
}

// CurrentStreak is the streak as of today: a streak whose last completed day
// is older than yesterday has lapsed.
func (p ProgressTotals) CurrentStreak(today DayKey) int {
	if p.LastCompletedDay == today || p.LastCompletedDay == today.Previous() {
		return p.StreakDays
	}
	return 0
}
