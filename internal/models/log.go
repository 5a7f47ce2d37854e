package models

import "time"

// DateLayout is the calendar-day key format used by the logs table
const DateLayout = "2006-01-02"

type Log struct {
	LogID     int       `json:"log_id"`
	Count     int       `json:"count"`
	TargetID  *int      `json:"target_id"` // nil for free counting outside any target
	Timestamp time.Time `json:"timestamp"`
	DateStr   string    `json:"date_str"` // YYYY-MM-DD, local day of Timestamp
}
