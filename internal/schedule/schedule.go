// Package schedule converts a target's typed recurring-reminder
// configuration into an RFC 5545 rule, for validation and for showing the
// owner when the next reminder lands. The scheduler itself matches wall
// clock minutes directly and never expands recurrences.
package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"tasbih/internal/models"
)

// weekdayRules maps stored weekday indices (0 = Sunday) to RRULE weekdays
var weekdayRules = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ParseClock validates an "HH:MM" wall-clock string
func ParseClock(clock string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM: %w", clock, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Rule builds the recurrence rule for a target's recurring reminder
func Rule(target *models.Target, dtstart time.Time) (*rrule.RRule, error) {
	if target.ReminderType != models.ReminderRecurring {
		return nil, fmt.Errorf("target %d has no recurring reminder", target.TargetID)
	}

	hour, minute, err := ParseClock(target.ReminderTime)
	if err != nil {
		return nil, err
	}

	opt := rrule.ROption{
		Dtstart:  dtstart,
		Byhour:   []int{hour},
		Byminute: []int{minute},
		Bysecond: []int{0},
	}

	switch target.Frequency {
	case models.FrequencyDaily:
		opt.Freq = rrule.DAILY
	case models.FrequencyWeekly:
		if len(target.ReminderDays) == 0 {
			return nil, fmt.Errorf("weekly reminder without weekdays")
		}
		opt.Freq = rrule.WEEKLY
		for _, d := range target.ReminderDays {
			if d < 0 || d > 6 {
				return nil, fmt.Errorf("invalid weekday index %d", d)
			}
			opt.Byweekday = append(opt.Byweekday, weekdayRules[d])
		}
	default:
		return nil, fmt.Errorf("unknown frequency %q", target.Frequency)
	}

	return rrule.NewRRule(opt)
}

// NextOccurrence returns the next reminder time strictly after the given
// time, or nil when the rule cannot produce one
func NextOccurrence(target *models.Target, after time.Time) (*time.Time, error) {
	rule, err := Rule(target, after.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	next := rule.After(after, false)
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}

// Describe renders a reminder configuration for the owner, e.g.
// "every day at 09:00" or "every week on Mon, Wed at 18:00"
func Describe(target *models.Target) string {
	switch target.ReminderType {
	case models.ReminderOneOff:
		return fmt.Sprintf("once, %d min after start if not begun", target.ReminderGap)
	case models.ReminderRecurring:
		switch target.Frequency {
		case models.FrequencyDaily:
			return "every day at " + target.ReminderTime
		case models.FrequencyWeekly:
			days := append([]int32(nil), target.ReminderDays...)
			sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
			names := make([]string, 0, len(days))
			for _, d := range days {
				if d >= 0 && d <= 6 {
					names = append(names, weekdayNames[d])
				}
			}
			return "every week on " + strings.Join(names, ", ") + " at " + target.ReminderTime
		}
	}
	return "no reminder"
}
