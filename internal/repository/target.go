package repository

import (
	"context"
	"time"

	"tasbih/internal/database"
	"tasbih/internal/models"
)

type TargetRepository struct {
	db *database.DB
}

func NewTargetRepository(db *database.DB) *TargetRepository {
	return &TargetRepository{db: db}
}

const targetColumns = `target_id, title, target_count, current_count, status, deadline,
	 reminder_type, start_time, reminder_gap, frequency, reminder_time, reminder_days,
	 has_notified_delay, last_notified, created_at`

func (r *TargetRepository) Create(ctx context.Context, target *models.Target) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO targets (title, target_count, current_count, status, deadline,
		 reminder_type, start_time, reminder_gap, frequency, reminder_time, reminder_days)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING target_id, created_at`,
		target.Title, target.TargetCount, target.CurrentCount, target.Status, target.Deadline,
		target.ReminderType, target.StartTime, target.ReminderGap, target.Frequency,
		target.ReminderTime, target.ReminderDays,
	).Scan(&target.TargetID, &target.CreatedAt)
}

func (r *TargetRepository) GetByID(ctx context.Context, targetID int) (*models.Target, error) {
	target := &models.Target{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE target_id = $1`,
		targetID,
	).Scan(&target.TargetID, &target.Title, &target.TargetCount, &target.CurrentCount,
		&target.Status, &target.Deadline, &target.ReminderType, &target.StartTime,
		&target.ReminderGap, &target.Frequency, &target.ReminderTime, &target.ReminderDays,
		&target.HasNotifiedDelay, &target.LastNotified, &target.CreatedAt)
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (r *TargetRepository) GetAll(ctx context.Context) ([]*models.Target, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+targetColumns+` FROM targets ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTargets(rows)
}

// GetActive returns the targets the reminder scheduler evaluates. The status
// filter lives here so callers never see completed or archived targets.
func (r *TargetRepository) GetActive(ctx context.Context) ([]*models.Target, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE status = $1 ORDER BY created_at ASC`,
		models.StatusActive,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTargets(rows)
}

// IncrementCount advances the tally and returns the new count
func (r *TargetRepository) IncrementCount(ctx context.Context, targetID int, delta int) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE targets SET current_count = current_count + $1 WHERE target_id = $2
		 RETURNING current_count`,
		delta, targetID,
	).Scan(&count)
	return count, err
}

func (r *TargetRepository) SetStatus(ctx context.Context, targetID int, status models.TargetStatus) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE targets SET status = $1 WHERE target_id = $2`,
		status, targetID,
	)
	return err
}

// SetReminder replaces the reminder configuration and clears the notification
// bookkeeping so the new schedule starts fresh.
func (r *TargetRepository) SetReminder(ctx context.Context, target *models.Target) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE targets SET reminder_type = $1, start_time = $2, reminder_gap = $3,
		 frequency = $4, reminder_time = $5, reminder_days = $6,
		 has_notified_delay = FALSE, last_notified = NULL
		 WHERE target_id = $7`,
		target.ReminderType, target.StartTime, target.ReminderGap,
		target.Frequency, target.ReminderTime, target.ReminderDays, target.TargetID,
	)
	return err
}

// SetHasNotifiedDelay is one of the two narrow updates the scheduler issues.
// Updating a target that was deleted mid-pass is a no-op.
func (r *TargetRepository) SetHasNotifiedDelay(ctx context.Context, targetID int, notified bool) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE targets SET has_notified_delay = $1 WHERE target_id = $2`,
		notified, targetID,
	)
	return err
}

func (r *TargetRepository) SetLastNotified(ctx context.Context, targetID int, at *time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE targets SET last_notified = $1 WHERE target_id = $2`,
		at, targetID,
	)
	return err
}

func (r *TargetRepository) Delete(ctx context.Context, targetID int) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM targets WHERE target_id = $1`,
		targetID,
	)
	return err
}

func (r *TargetRepository) scanTargets(rows interface {
	Next() bool
	Scan(dest ...any) error
}) ([]*models.Target, error) {
	var targets []*models.Target
	for rows.Next() {
		target := &models.Target{}
		if err := rows.Scan(&target.TargetID, &target.Title, &target.TargetCount,
			&target.CurrentCount, &target.Status, &target.Deadline, &target.ReminderType,
			&target.StartTime, &target.ReminderGap, &target.Frequency, &target.ReminderTime,
			&target.ReminderDays, &target.HasNotifiedDelay, &target.LastNotified,
			&target.CreatedAt); err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}
