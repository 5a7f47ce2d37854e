package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tasbih/internal/models"
	"tasbih/internal/repository"
)

type DayTotal struct {
	Date  time.Time
	Count int
}

type Summary struct {
	Week          []DayTotal // last seven days, oldest first, zero-filled
	LifetimeTotal int
	BestDay       int
}

type Service struct {
	logs *repository.LogRepository
}

func NewService(logs *repository.LogRepository) *Service {
	return &Service{logs: logs}
}

// Weekly builds the seven-day activity summary ending today
func (s *Service) Weekly(ctx context.Context, now time.Time) (*Summary, error) {
	since := now.AddDate(0, 0, -6)
	totals, err := s.logs.DailyTotals(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily totals: %w", err)
	}

	summary := &Summary{Week: weekOf(totals, now)}

	if summary.LifetimeTotal, err = s.logs.LifetimeTotal(ctx); err != nil {
		return nil, fmt.Errorf("failed to load lifetime total: %w", err)
	}
	if summary.BestDay, err = s.logs.BestDay(ctx); err != nil {
		return nil, fmt.Errorf("failed to load best day: %w", err)
	}
	return summary, nil
}

// weekOf lays the per-day totals out as the seven days ending at now,
// zero-filling days without activity
func weekOf(totals map[string]int, now time.Time) []DayTotal {
	week := make([]DayTotal, 0, 7)
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, i-6)
		week = append(week, DayTotal{
			Date:  day,
			Count: totals[day.Format(models.DateLayout)],
		})
	}
	return week
}

const barWidth = 12

// Render formats the summary as a monospace bar chart for chat
func Render(summary *Summary) string {
	max := 0
	for _, day := range summary.Week {
		if day.Count > max {
			max = day.Count
		}
	}

	var sb strings.Builder
	sb.WriteString("📊 *Weekly Activity*\n\n```\n")
	for _, day := range summary.Week {
		bar := ""
		if max > 0 && day.Count > 0 {
			width := day.Count * barWidth / max
			if width == 0 {
				width = 1
			}
			bar = strings.Repeat("▇", width)
		}
		sb.WriteString(fmt.Sprintf("%s %-12s %d\n", day.Date.Format("Mon"), bar, day.Count))
	}
	sb.WriteString("```\n")
	sb.WriteString(fmt.Sprintf("\nTotal count: *%d*\nBest day: *%d*", summary.LifetimeTotal, summary.BestDay))
	return sb.String()
}
