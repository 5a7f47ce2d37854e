// Package backup implements the JSON export/restore of the whole store.
// Restore is destructive: both collections are cleared before the bulk
// insert, inside a single transaction.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tasbih/internal/database"
	"tasbih/internal/models"
	"tasbih/internal/repository"
)

const Version = 1

type Backup struct {
	Version   int              `json:"version"`
	Timestamp time.Time        `json:"timestamp"`
	Logs      []*models.Log    `json:"logs"`
	Targets   []*models.Target `json:"targets"`
}

type Service struct {
	db      *database.DB
	logs    *repository.LogRepository
	targets *repository.TargetRepository
}

func NewService(db *database.DB, logs *repository.LogRepository, targets *repository.TargetRepository) *Service {
	return &Service{db: db, logs: logs, targets: targets}
}

// Export marshals the full store as an indented, versioned JSON document
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	logs, err := s.logs.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export logs: %w", err)
	}
	targets, err := s.targets.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export targets: %w", err)
	}

	return json.MarshalIndent(&Backup{
		Version:   Version,
		Timestamp: time.Now(),
		Logs:      logs,
		Targets:   targets,
	}, "", "  ")
}

// Parse checks that the document carries both collections. Field-level
// schema is not validated; malformed records surface as insert errors.
func Parse(data []byte) (*Backup, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("invalid backup file: %w", err)
	}
	if _, ok := keys["logs"]; !ok {
		return nil, fmt.Errorf("invalid backup file: missing logs")
	}
	if _, ok := keys["targets"]; !ok {
		return nil, fmt.Errorf("invalid backup file: missing targets")
	}

	backup := &Backup{}
	if err := json.Unmarshal(data, backup); err != nil {
		return nil, fmt.Errorf("invalid backup file: %w", err)
	}
	return backup, nil
}

// Restore replaces everything in the store with the backup's contents,
// keeping the original record IDs.
func (s *Service) Restore(ctx context.Context, backup *Backup) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin restore: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM logs`); err != nil {
		return fmt.Errorf("failed to clear logs: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM targets`); err != nil {
		return fmt.Errorf("failed to clear targets: %w", err)
	}

	for _, target := range backup.Targets {
		_, err := tx.Exec(ctx,
			`INSERT INTO targets (target_id, title, target_count, current_count, status, deadline,
			 reminder_type, start_time, reminder_gap, frequency, reminder_time, reminder_days,
			 has_notified_delay, last_notified, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			target.TargetID, target.Title, target.TargetCount, target.CurrentCount, target.Status,
			target.Deadline, target.ReminderType, target.StartTime, target.ReminderGap,
			target.Frequency, target.ReminderTime, target.ReminderDays,
			target.HasNotifiedDelay, target.LastNotified, target.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to restore target %d: %w", target.TargetID, err)
		}
	}

	for _, entry := range backup.Logs {
		_, err := tx.Exec(ctx,
			`INSERT INTO logs (log_id, count, target_id, timestamp, date_str)
			 VALUES ($1, $2, $3, $4, $5)`,
			entry.LogID, entry.Count, entry.TargetID, entry.Timestamp, entry.DateStr,
		)
		if err != nil {
			return fmt.Errorf("failed to restore log %d: %w", entry.LogID, err)
		}
	}

	// Imported rows carry explicit IDs, so the serial sequences must be
	// moved past them.
	if _, err := tx.Exec(ctx,
		`SELECT setval('targets_target_id_seq', COALESCE((SELECT MAX(target_id) FROM targets), 0) + 1, false)`,
	); err != nil {
		return fmt.Errorf("failed to reset targets sequence: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`SELECT setval('logs_log_id_seq', COALESCE((SELECT MAX(log_id) FROM logs), 0) + 1, false)`,
	); err != nil {
		return fmt.Errorf("failed to reset logs sequence: %w", err)
	}

	return tx.Commit(ctx)
}

// Reset deletes all logs and targets
func (s *Service) Reset(ctx context.Context) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin reset: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM logs`); err != nil {
		return fmt.Errorf("failed to clear logs: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM targets`); err != nil {
		return fmt.Errorf("failed to clear targets: %w", err)
	}
	return tx.Commit(ctx)
}
