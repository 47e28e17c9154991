package models

import "time"

type QuotaState struct {
	PhotosUsedToday int        `json:"photosUsedToday"`
	Day             DayKey     `json:"day"`
	CooldownUntil   *time.Time `json:"cooldownUntil"`
}

// QuotaStatus is the caller-facing view of a QuotaState at an instant.
type QuotaStatus struct {
	CanCapture        bool       `json:"can_capture"`
	PhotosUsed        int        `json:"photos_used"`
	Remaining         int        `json:"remaining"`
	Limit             int        `json:"limit"`
	CooldownUntil     *time.Time `json:"cooldown_until,omitempty"`
	RetryAfterSeconds int64      `json:"retry_after_seconds,omitempty"`
	RetryAfter        string     `json:"retry_after,omitempty"`
}
