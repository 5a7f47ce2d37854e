package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasbih/internal/models"
)

// 2026-03-02 is a Monday
func day(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func oneOffTarget(start time.Time, gap int) *models.Target {
	return &models.Target{
		TargetID:     1,
		Title:        "Salawat",
		TargetCount:  1000,
		Status:       models.StatusActive,
		ReminderType: models.ReminderOneOff,
		StartTime:    &start,
		ReminderGap:  gap,
	}
}

func dailyTarget(clock string) *models.Target {
	return &models.Target{
		TargetID:     2,
		Title:        "SubhanAllah",
		TargetCount:  33,
		Status:       models.StatusActive,
		ReminderType: models.ReminderRecurring,
		Frequency:    models.FrequencyDaily,
		ReminderTime: clock,
	}
}

func applyMutation(t *testing.T, target *models.Target, d Decision, now time.Time) {
	t.Helper()
	switch d.Mutation {
	case MarkDelayNotified:
		target.HasNotifiedDelay = true
	case MarkLastNotified:
		target.LastNotified = &now
	default:
		t.Fatalf("decision without mutation")
	}
}

func TestOneOffFiresAfterGap(t *testing.T) {
	start := day(9, 0)
	target := oneOffTarget(start, 30)

	// 29 minutes late: nothing
	assert.Empty(t, Evaluate([]*models.Target{target}, start.Add(29*time.Minute)))

	// 30 minutes late: exactly one firing
	decisions := Evaluate([]*models.Target{target}, start.Add(30*time.Minute))
	require.Len(t, decisions, 1)
	assert.Equal(t, MarkDelayNotified, decisions[0].Mutation)
	assert.Equal(t, "Time to start: Salawat", decisions[0].Notification.Title)
	assert.Contains(t, decisions[0].Notification.Body, "1000")
	assert.Equal(t, "target-1", decisions[0].Notification.Tag)

	// After the mutation is applied the branch is permanently closed
	applyMutation(t, target, decisions[0], start.Add(30*time.Minute))
	assert.Empty(t, Evaluate([]*models.Target{target}, start.Add(45*time.Minute)))
	assert.Empty(t, Evaluate([]*models.Target{target}, start.Add(24*time.Hour)))
}

func TestOneOffSuppressedOnceStarted(t *testing.T) {
	start := day(9, 0)
	target := oneOffTarget(start, 30)
	target.CurrentCount = 5

	assert.Empty(t, Evaluate([]*models.Target{target}, start.Add(2*time.Hour)))
}

func TestOneOffRequiresConfiguration(t *testing.T) {
	start := day(9, 0)

	noStart := oneOffTarget(start, 30)
	noStart.StartTime = nil
	assert.Empty(t, Evaluate([]*models.Target{noStart}, day(10, 0)))

	noGap := oneOffTarget(start, 0)
	assert.Empty(t, Evaluate([]*models.Target{noGap}, day(10, 0)))
}

func TestRecurringDailyFiresOncePerDay(t *testing.T) {
	target := dailyTarget("09:00")

	now := day(9, 0)
	decisions := Evaluate([]*models.Target{target}, now)
	require.Len(t, decisions, 1)
	assert.Equal(t, MarkLastNotified, decisions[0].Mutation)
	assert.Contains(t, decisions[0].Notification.Body, "daily")
	assert.Contains(t, decisions[0].Notification.Body, "SubhanAllah")
	assert.Equal(t, "target-2", decisions[0].Notification.Tag)
	applyMutation(t, target, decisions[0], now)

	// A duplicate tick inside the same minute, or clock skew later the
	// same day, must not fire again
	assert.Empty(t, Evaluate([]*models.Target{target}, day(9, 0).Add(20*time.Second)))
	assert.Empty(t, Evaluate([]*models.Target{target}, day(9, 0)))

	// The next calendar day fires again
	tomorrow := day(9, 0).AddDate(0, 0, 1)
	decisions = Evaluate([]*models.Target{target}, tomorrow)
	assert.Len(t, decisions, 1)
}

func TestRecurringExactMinuteMatch(t *testing.T) {
	target := dailyTarget("09:00")

	// "Reached or passed" is not enough, the minute must match exactly
	assert.Empty(t, Evaluate([]*models.Target{target}, day(8, 59)))
	assert.Empty(t, Evaluate([]*models.Target{target}, day(9, 1)))

	// Seconds within the matching minute are ignored
	decisions := Evaluate([]*models.Target{target}, day(9, 0).Add(42*time.Second))
	assert.Len(t, decisions, 1)
}

func TestRecurringWeeklyDayFilter(t *testing.T) {
	target := &models.Target{
		TargetID:     3,
		Title:        "Surah Al-Kahf",
		TargetCount:  1,
		Status:       models.StatusActive,
		ReminderType: models.ReminderRecurring,
		Frequency:    models.FrequencyWeekly,
		ReminderTime: "18:00",
		ReminderDays: []int32{1, 3}, // Monday, Wednesday
	}

	monday := day(18, 0)
	tuesday := monday.AddDate(0, 0, 1)
	wednesday := monday.AddDate(0, 0, 2)

	decisions := Evaluate([]*models.Target{target}, monday)
	require.Len(t, decisions, 1)
	applyMutation(t, target, decisions[0], monday)

	assert.Empty(t, Evaluate([]*models.Target{target}, tuesday))

	decisions = Evaluate([]*models.Target{target}, wednesday)
	assert.Len(t, decisions, 1)
}

func TestRecurringPartialRecordIsIgnored(t *testing.T) {
	noTime := dailyTarget("")
	assert.Empty(t, Evaluate([]*models.Target{noTime}, day(9, 0)))

	badFreq := dailyTarget("09:00")
	badFreq.Frequency = "hourly"
	assert.Empty(t, Evaluate([]*models.Target{badFreq}, day(9, 0)))

	noDays := dailyTarget("09:00")
	noDays.Frequency = models.FrequencyWeekly
	noDays.ReminderDays = nil
	assert.Empty(t, Evaluate([]*models.Target{noDays}, day(9, 0)))
}

func TestInactiveTargetsNeverFire(t *testing.T) {
	start := day(8, 0)
	for _, status := range []models.TargetStatus{models.StatusCompleted, models.StatusArchived} {
		target := oneOffTarget(start, 30)
		target.Status = status
		assert.Empty(t, Evaluate([]*models.Target{target}, day(10, 0)), "status %s", status)
	}
}

func TestNoReminderConfigured(t *testing.T) {
	target := &models.Target{
		TargetID:     4,
		Title:        "Alhamdulillah",
		TargetCount:  33,
		Status:       models.StatusActive,
		ReminderType: models.ReminderNone,
	}
	assert.Empty(t, Evaluate([]*models.Target{target}, day(9, 0)))
}

func TestAtMostOneDecisionPerTargetPerPass(t *testing.T) {
	// A target carrying both configurations only fires its discriminated
	// branch
	start := day(8, 0)
	target := oneOffTarget(start, 30)
	target.Frequency = models.FrequencyDaily
	target.ReminderTime = "09:00"

	decisions := Evaluate([]*models.Target{target}, day(9, 0))
	require.Len(t, decisions, 1)
	assert.Equal(t, MarkDelayNotified, decisions[0].Mutation)
}

// The store hands timestamps back tagged UTC while the scheduler clock
// runs in the configured location. Decisions must depend on the instant,
// never on the zone either side happens to be tagged with.
func TestOneOffGapMeasuredAcrossZones(t *testing.T) {
	west := time.FixedZone("UTC-5", -5*3600)

	// Stored instant: 09:00 UTC, which is 04:00 on the local clock
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	target := oneOffTarget(start, 30)

	// 29 local minutes after the start instant: nothing
	assert.Empty(t, Evaluate([]*models.Target{target},
		time.Date(2026, 3, 2, 4, 29, 0, 0, west)))

	// 30 minutes: exactly one firing, not hours early or late
	decisions := Evaluate([]*models.Target{target},
		time.Date(2026, 3, 2, 4, 30, 0, 0, west))
	require.Len(t, decisions, 1)
	assert.Equal(t, MarkDelayNotified, decisions[0].Mutation)
}

func TestRecurringDedupAcrossZones(t *testing.T) {
	east := time.FixedZone("UTC+5", 5*3600)
	target := dailyTarget("02:00")

	// Fired today at 02:00 local; the stored instant reads back as the
	// previous day in UTC.
	lastNotified := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)
	target.LastNotified = &lastNotified

	// A later tick inside the same local minute must stay suppressed
	assert.Empty(t, Evaluate([]*models.Target{target},
		time.Date(2026, 3, 2, 2, 0, 20, 0, east)))

	// The next local calendar day fires again
	decisions := Evaluate([]*models.Target{target},
		time.Date(2026, 3, 3, 2, 0, 0, 0, east))
	assert.Len(t, decisions, 1)
}

func TestDailyReminderMinuteByMinute(t *testing.T) {
	target := dailyTarget("12:00")

	fired := 0
	var firedAt time.Time
	for now := day(11, 58); !now.After(day(12, 2)); now = now.Add(20 * time.Second) {
		for _, d := range Evaluate([]*models.Target{target}, now) {
			fired++
			firedAt = now
			assert.Equal(t, "target-2", d.Notification.Tag)
			applyMutation(t, target, d, now)
		}
	}

	assert.Equal(t, 1, fired)
	assert.Equal(t, day(12, 0), firedAt)
}
