package models

import "time"

const dayLayout = "2006-01-02"

// DayKey identifies a calendar day, e.g. "2024-03-01".
type DayKey string

// DayOf returns the calendar day of t in t's location.
func DayOf(t time.Time) DayKey {
	return DayKey(t.Format(dayLayout))
}

// Previous returns the day before d. Invalid keys yield "".
func (d DayKey) Previous() DayKey {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return ""
	}
	return DayKey(t.AddDate(0, 0, -1).Format(dayLayout))
}
