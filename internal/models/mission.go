package models

import "time"

type Mission struct {
	ID               string     `json:"id"`
	EnvironmentKey   string     `json:"environment"`
	EnvironmentEmoji string     `json:"environmentEmoji,omitempty"`
	EnvironmentColor string     `json:"environmentColor,omitempty"`
	ObjectKey        string     `json:"objectKey"`
	Completed        bool       `json:"completed"`
	PointsAward      int        `json:"points"`
	CompletedAt      *time.Time `json:"completedAt"`
}

// MissionBatch is one day's missions stored together with the day that produced them.
type MissionBatch struct {
	Day      DayKey    `json:"day"`
	Missions []Mission `json:"missions"`
}

// AllCompleted reports whether every mission in the batch is done.
// An empty batch is never complete.
func (b MissionBatch) AllCompleted() bool {
	if len(b.Missions) == 0 {
		return false
	}
	for _, m := range b.Missions {
		if !m.Completed {
			return false
		}
	}
	return true
}

// CompletedCount returns how many missions are done.
func (b MissionBatch) CompletedCount() int {
	n := 0
	for _, m := range b.Missions {
		if m.Completed {
			n++
		}
	}
	return n
}

// Find returns the mission with id, if any.
func (b MissionBatch) Find(id string) (Mission, bool) {
	for _, m := range b.Missions {
		if m.ID == id {
			return m, true
		}
	}
	return Mission{}, false
}

// MissionView is a mission with localized names.
type MissionView struct {
	Mission
	ObjectName      string `json:"objectName"`
	EnvironmentName string `json:"environmentName"`
}

// MissionBoard is today's batch as shown to the user.
type MissionBoard struct {
	Day          DayKey         `json:"day"`
	Language     string         `json:"language"`
	Missions     []MissionView  `json:"missions"`
	Completed    int            `json:"completed"`
	Total        int            `json:"total"`
	AllCompleted bool           `json:"allCompleted"`
	Progress     ProgressTotals `json:"progress"`
}
