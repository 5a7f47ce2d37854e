package models

import "time"

type TargetStatus string

const (
	StatusActive    TargetStatus = "active"
	StatusCompleted TargetStatus = "completed"
	StatusArchived  TargetStatus = "archived"
)

type ReminderType string

const (
	ReminderNone      ReminderType = "none"
	ReminderOneOff    ReminderType = "oneoff"
	ReminderRecurring ReminderType = "recurring"
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

type Target struct {
	TargetID     int          `json:"target_id"`
	Title        string       `json:"title"`
	TargetCount  int          `json:"target_count"`
	CurrentCount int          `json:"current_count"`
	Status       TargetStatus `json:"status"`
	Deadline     *time.Time   `json:"deadline"`

	// Reminder configuration. ReminderType selects which of the two modes
	// below is in effect; the fields of the other mode are left zero.
	ReminderType ReminderType `json:"reminder_type"`
	StartTime    *time.Time   `json:"start_time"`    // one-off: when the user means to begin
	ReminderGap  int          `json:"reminder_gap"`  // one-off: minutes after StartTime
	Frequency    Frequency    `json:"frequency"`     // recurring: daily or weekly
	ReminderTime string       `json:"reminder_time"` // recurring: wall clock "HH:MM"
	ReminderDays []int32      `json:"reminder_days"` // recurring weekly: weekdays, 0=Sunday

	// Notification bookkeeping, written only by the reminder scheduler.
	HasNotifiedDelay bool       `json:"has_notified_delay"`
	LastNotified     *time.Time `json:"last_notified"`

	CreatedAt time.Time `json:"created_at"`
}

func (t *Target) IsActive() bool {
	return t.Status == StatusActive
}

// IsRecurring returns true if this target has a recurring reminder configured
func (t *Target) IsRecurring() bool {
	return t.ReminderType == ReminderRecurring
}

// Progress returns completion as a percentage, capped at 100
func (t *Target) Progress() int {
	if t.TargetCount <= 0 {
		return 0
	}
	p := t.CurrentCount * 100 / t.TargetCount
	if p > 100 {
		p = 100
	}
	return p
}

// DaysLeft returns the number of whole days until the deadline, or nil
// when no deadline is set
func (t *Target) DaysLeft(now time.Time) *int {
	if t.Deadline == nil {
		return nil
	}
	days := int(t.Deadline.Sub(now).Hours() / 24)
	return &days
}
