package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasbih/internal/models"
)

func recurring(freq models.Frequency, clock string, days ...int32) *models.Target {
	return &models.Target{
		TargetID:     1,
		Title:        "SubhanAllah",
		Status:       models.StatusActive,
		ReminderType: models.ReminderRecurring,
		Frequency:    freq,
		ReminderTime: clock,
		ReminderDays: days,
	}
}

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock("18:05")
	require.NoError(t, err)
	assert.Equal(t, 18, hour)
	assert.Equal(t, 5, minute)

	_, _, err = ParseClock("25:00")
	assert.Error(t, err)
	_, _, err = ParseClock("six pm")
	assert.Error(t, err)
}

func TestRuleRejectsPartialConfig(t *testing.T) {
	_, err := Rule(recurring(models.FrequencyWeekly, "18:00"), time.Now())
	assert.Error(t, err, "weekly needs weekdays")

	_, err = Rule(recurring("hourly", "18:00"), time.Now())
	assert.Error(t, err, "unknown frequency")

	_, err = Rule(recurring(models.FrequencyDaily, "9am"), time.Now())
	assert.Error(t, err, "bad clock")

	_, err = Rule(recurring(models.FrequencyWeekly, "18:00", 9), time.Now())
	assert.Error(t, err, "weekday out of range")

	_, err = Rule(&models.Target{TargetID: 2, ReminderType: models.ReminderOneOff}, time.Now())
	assert.Error(t, err, "not recurring")
}

func TestNextOccurrenceDaily(t *testing.T) {
	target := recurring(models.FrequencyDaily, "09:00")

	// 2026-03-02 10:00, past today's slot
	after := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	next, err := NextOccurrence(target, after)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), next.UTC())
}

func TestNextOccurrenceWeekly(t *testing.T) {
	target := recurring(models.FrequencyWeekly, "18:00", 1, 3) // Mon, Wed

	// Monday 2026-03-02 19:00, past Monday's slot
	after := time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC)
	next, err := NextOccurrence(target, after)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC), next.UTC())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "every day at 09:00",
		Describe(recurring(models.FrequencyDaily, "09:00")))
	assert.Equal(t, "every week on Mon, Wed at 18:00",
		Describe(recurring(models.FrequencyWeekly, "18:00", 3, 1)))
	assert.Equal(t, "once, 30 min after start if not begun",
		Describe(&models.Target{ReminderType: models.ReminderOneOff, ReminderGap: 30}))
	assert.Equal(t, "no reminder",
		Describe(&models.Target{ReminderType: models.ReminderNone}))
}
