package scheduler

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"tasbih/internal/models"
	"tasbih/internal/notify"
	"tasbih/internal/reminder"
)

// TargetSource is the slice of the store the scheduler needs: the active
// set plus the two bookkeeping writes the evaluator can request.
type TargetSource interface {
	GetActive(ctx context.Context) ([]*models.Target, error)
	SetHasNotifiedDelay(ctx context.Context, targetID int, notified bool) error
	SetLastNotified(ctx context.Context, targetID int, at *time.Time) error
}

type Scheduler struct {
	targets       TargetSource
	notifier      notify.Notifier
	loc           *time.Location
	checkInterval time.Duration
	notifyCh      chan struct{}
	running       atomic.Bool
}

func New(targets TargetSource, notifier notify.Notifier, loc *time.Location, checkInterval time.Duration) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if checkInterval <= 0 {
		checkInterval = 20 * time.Second
	}
	return &Scheduler{
		targets:       targets,
		notifier:      notifier,
		loc:           loc,
		checkInterval: checkInterval,
		notifyCh:      make(chan struct{}, 1),
	}
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
		// Channel already has a pending notification, skip
	}
}

// Start runs the polling loop until ctx is cancelled. The interval is short
// enough that a minute-precision recurring reminder is observed at least
// once during its matching minute.
func (s *Scheduler) Start(ctx context.Context) {
	log.Println("Reminder scheduler started")
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	// Wait a bit for migrations to complete before first check
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
	}

	s.Check(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder scheduler stopped")
			return
		case <-ticker.C:
			s.Check(ctx)
		case <-s.notifyCh:
			s.Check(ctx)
		}
	}
}

// Check runs one evaluation pass. A pass that starts while another is still
// awaiting store I/O no-ops entirely, so a slow tick can never interleave
// partial updates with the next one.
func (s *Scheduler) Check(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	defer s.running.Store(false)

	// Without granted permission the whole pass is skipped: no reads, no
	// mutations, no partial side effects.
	if s.notifier.Permission(ctx) != notify.PermissionGranted {
		return
	}

	targets, err := s.targets.GetActive(ctx)
	if err != nil {
		log.Printf("Failed to get active targets: %v", err)
		return
	}

	now := time.Now().In(s.loc)
	for _, decision := range reminder.Evaluate(targets, now) {
		// A failure on one target must not stop the rest of the pass.
		if err := s.notifier.Send(ctx, decision.Notification); err != nil {
			log.Printf("Failed to send reminder for target %d: %v", decision.Target.TargetID, err)
			continue
		}

		switch decision.Mutation {
		case reminder.MarkDelayNotified:
			err = s.targets.SetHasNotifiedDelay(ctx, decision.Target.TargetID, true)
		case reminder.MarkLastNotified:
			err = s.targets.SetLastNotified(ctx, decision.Target.TargetID, &now)
		}
		if err != nil {
			log.Printf("Failed to record notification for target %d: %v", decision.Target.TargetID, err)
			continue
		}
		log.Printf("Sent reminder for target %d (%s)", decision.Target.TargetID, decision.Target.Title)
	}
}
