package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekOfZeroFills(t *testing.T) {
	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	totals := map[string]int{
		"2026-03-02": 150, // today
		"2026-02-28": 33,
		"2026-02-20": 999, // outside the window, ignored
	}

	week := weekOf(totals, now)
	require.Len(t, week, 7)

	assert.Equal(t, "2026-02-24", week[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2026-03-02", week[6].Date.Format("2006-01-02"))

	counts := make([]int, 0, 7)
	for _, day := range week {
		counts = append(counts, day.Count)
	}
	assert.Equal(t, []int{0, 0, 0, 0, 33, 0, 150}, counts)
}

func TestRenderScalesBars(t *testing.T) {
	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	week := weekOf(map[string]int{"2026-03-02": 120, "2026-03-01": 60}, now)
	out := Render(&Summary{Week: week, LifetimeTotal: 180, BestDay: 120})

	assert.Contains(t, out, "Weekly Activity")
	assert.Contains(t, out, "Mon")
	assert.Contains(t, out, "▇")
	assert.Contains(t, out, "Total count: *180*")
	assert.Contains(t, out, "Best day: *120*")
}

func TestRenderEmptyWeek(t *testing.T) {
	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	out := Render(&Summary{Week: weekOf(nil, now)})

	assert.NotContains(t, out, "▇")
	assert.Contains(t, out, "Total count: *0*")
}
