package repository

import (
	"context"
	"time"

	"tasbih/internal/database"
	"tasbih/internal/models"
)

type LogRepository struct {
	db *database.DB
}

func NewLogRepository(db *database.DB) *LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) Create(ctx context.Context, entry *models.Log) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO logs (count, target_id, timestamp, date_str)
		 VALUES ($1, $2, $3, $4)
		 RETURNING log_id`,
		entry.Count, entry.TargetID, entry.Timestamp, entry.DateStr,
	).Scan(&entry.LogID)
}

func (r *LogRepository) GetAll(ctx context.Context) ([]*models.Log, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT log_id, count, target_id, timestamp, date_str
		 FROM logs ORDER BY timestamp ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.Log
	for rows.Next() {
		entry := &models.Log{}
		if err := rows.Scan(&entry.LogID, &entry.Count, &entry.TargetID,
			&entry.Timestamp, &entry.DateStr); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, nil
}

// TotalForDate sums all counts logged on one calendar day
func (r *LogRepository) TotalForDate(ctx context.Context, dateStr string) (int, error) {
	var total int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(count), 0) FROM logs WHERE date_str = $1`,
		dateStr,
	).Scan(&total)
	return total, err
}

// DailyTotals returns per-day sums for days on or after since
func (r *LogRepository) DailyTotals(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT date_str, SUM(count) FROM logs WHERE date_str >= $1 GROUP BY date_str`,
		since.Format(models.DateLayout),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var dateStr string
		var total int
		if err := rows.Scan(&dateStr, &total); err != nil {
			return nil, err
		}
		totals[dateStr] = total
	}
	return totals, nil
}

func (r *LogRepository) LifetimeTotal(ctx context.Context) (int, error) {
	var total int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(count), 0) FROM logs`,
	).Scan(&total)
	return total, err
}

// BestDay returns the highest single-day total, zero when there are no logs
func (r *LogRepository) BestDay(ctx context.Context) (int, error) {
	var best int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(day_total), 0) FROM
		 (SELECT SUM(count) AS day_total FROM logs GROUP BY date_str) AS days`,
	).Scan(&best)
	return best, err
}
