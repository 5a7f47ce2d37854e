// Package reminder decides which targets are due a notification. The
// decision logic is pure: the scheduler feeds it the active targets and the
// current time, and applies the returned side effects itself.
package reminder

import (
	"fmt"
	"time"

	"tasbih/internal/models"
	"tasbih/internal/notify"
)

// Mutation is the bookkeeping write that must be persisted when a decision
// fires, so the same reminder never repeats.
type Mutation int

const (
	// MarkDelayNotified sets has_notified_delay, permanently retiring a
	// one-off reminder for its target.
	MarkDelayNotified Mutation = iota + 1
	// MarkLastNotified stamps last_notified with the evaluation time,
	// suppressing further recurring firings for that calendar day.
	MarkLastNotified
)

type Decision struct {
	Target       *models.Target
	Notification notify.Notification
	Mutation     Mutation
}

// Evaluate returns at most one decision per target. Callers are expected to
// pass only active targets (the store query filters on status); targets in
// any other status are skipped regardless.
func Evaluate(targets []*models.Target, now time.Time) []Decision {
	var decisions []Decision
	for _, target := range targets {
		if !target.IsActive() {
			continue
		}
		if d, ok := evaluateTarget(target, now); ok {
			decisions = append(decisions, d)
		}
	}
	return decisions
}

// evaluateTarget tries the one-off branch first, then the recurring branch.
// A target whose configuration fits neither (or is partial) produces nothing.
func evaluateTarget(target *models.Target, now time.Time) (Decision, bool) {
	if oneOffApplies(target) {
		minutesLate := int(now.Sub(*target.StartTime).Minutes())
		if minutesLate < target.ReminderGap {
			return Decision{}, false
		}
		return Decision{
			Target: target,
			Notification: notify.Notification{
				Title: "Time to start: " + target.Title,
				Body:  fmt.Sprintf("You set a goal of %d and haven't started yet!", target.TargetCount),
				Tag:   Tag(target),
			},
			Mutation: MarkDelayNotified,
		}, true
	}

	if recurringApplies(target) {
		if now.Format("15:04") != target.ReminderTime {
			return Decision{}, false
		}
		if target.Frequency == models.FrequencyWeekly && !dayEligible(target.ReminderDays, now) {
			return Decision{}, false
		}
		if target.LastNotified != nil && sameDay(*target.LastNotified, now) {
			return Decision{}, false
		}
		return Decision{
			Target: target,
			Notification: notify.Notification{
				Title: "Dhikr reminder: " + target.Title,
				Body:  fmt.Sprintf("Time for your %s practice of %s.", target.Frequency, target.Title),
				Tag:   Tag(target),
			},
			Mutation: MarkLastNotified,
		}, true
	}

	return Decision{}, false
}

func oneOffApplies(target *models.Target) bool {
	return target.ReminderType == models.ReminderOneOff &&
		target.ReminderGap > 0 &&
		target.StartTime != nil &&
		target.CurrentCount == 0 &&
		!target.HasNotifiedDelay
}

func recurringApplies(target *models.Target) bool {
	if target.ReminderType != models.ReminderRecurring || target.ReminderTime == "" {
		return false
	}
	// An unknown frequency is a partial record, not an error
	return target.Frequency == models.FrequencyDaily || target.Frequency == models.FrequencyWeekly
}

func dayEligible(days []int32, now time.Time) bool {
	weekday := int32(now.Weekday()) // 0 = Sunday, matching the stored indices
	for _, d := range days {
		if d == weekday {
			return true
		}
	}
	return false
}

// sameDay compares calendar dates in now's location
func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// Tag is the stable per-target deduplication tag attached to every
// notification for that target.
func Tag(target *models.Target) string {
	return fmt.Sprintf("target-%d", target.TargetID)
}
