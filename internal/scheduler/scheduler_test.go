package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasbih/internal/models"
	"tasbih/internal/notify"
)

type fakeSource struct {
	mu            sync.Mutex
	targets       []*models.Target
	getCalls      int
	delayNotified []int
	lastNotified  []int

	// When set, GetActive signals entered and then blocks until release
	// is closed, letting tests hold a pass open mid-I/O.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeSource) GetActive(ctx context.Context) ([]*models.Target, error) {
	f.mu.Lock()
	f.getCalls++
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	return f.targets, nil
}

func (f *fakeSource) SetHasNotifiedDelay(ctx context.Context, targetID int, notified bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delayNotified = append(f.delayNotified, targetID)
	return nil
}

func (f *fakeSource) SetLastNotified(ctx context.Context, targetID int, at *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastNotified = append(f.lastNotified, targetID)
	return nil
}

type fakeNotifier struct {
	mu         sync.Mutex
	permission notify.Permission
	sent       []notify.Notification
	failTags   map[string]bool
}

func (f *fakeNotifier) Permission(ctx context.Context) notify.Permission {
	return f.permission
}

func (f *fakeNotifier) Send(ctx context.Context, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTags[n.Tag] {
		return fmt.Errorf("sink unavailable")
	}
	f.sent = append(f.sent, n)
	return nil
}

// dueOneOff is overdue however soon the pass runs
func dueOneOff(id int) *models.Target {
	start := time.Now().Add(-2 * time.Hour)
	return &models.Target{
		TargetID:     id,
		Title:        fmt.Sprintf("Dhikr %d", id),
		TargetCount:  100,
		Status:       models.StatusActive,
		ReminderType: models.ReminderOneOff,
		StartTime:    &start,
		ReminderGap:  30,
	}
}

func TestCheckSendsAndRecordsBookkeeping(t *testing.T) {
	source := &fakeSource{targets: []*models.Target{dueOneOff(1)}}
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	s := New(source, notifier, time.UTC, time.Second)

	s.Check(context.Background())

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "target-1", notifier.sent[0].Tag)
	assert.Equal(t, []int{1}, source.delayNotified)
}

func TestCheckSkippedWithoutPermission(t *testing.T) {
	for _, permission := range []notify.Permission{notify.PermissionDefault, notify.PermissionDenied} {
		source := &fakeSource{targets: []*models.Target{dueOneOff(1)}}
		notifier := &fakeNotifier{permission: permission}
		s := New(source, notifier, time.UTC, time.Second)

		s.Check(context.Background())

		// The whole pass is skipped: no reads, no writes, no sends
		assert.Zero(t, source.getCalls)
		assert.Empty(t, notifier.sent)
		assert.Empty(t, source.delayNotified)
	}
}

func TestCheckReentrancyGuard(t *testing.T) {
	source := &fakeSource{
		targets: []*models.Target{dueOneOff(1)},
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	s := New(source, notifier, time.UTC, time.Second)

	done := make(chan struct{})
	go func() {
		s.Check(context.Background())
		close(done)
	}()

	// First pass is now parked inside its store read
	<-source.entered

	// A tick arriving while the pass is in flight must no-op entirely
	s.Check(context.Background())
	assert.Equal(t, 1, source.getCalls)

	close(source.release)
	<-done

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, []int{1}, source.delayNotified)
}

func TestCheckFailureOnOneTargetDoesNotStopPass(t *testing.T) {
	source := &fakeSource{targets: []*models.Target{dueOneOff(1), dueOneOff(2)}}
	notifier := &fakeNotifier{
		permission: notify.PermissionGranted,
		failTags:   map[string]bool{"target-1": true},
	}
	s := New(source, notifier, time.UTC, time.Second)

	s.Check(context.Background())

	// Target 1's sink failure is logged and skipped; target 2 still fires
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "target-2", notifier.sent[0].Tag)
	assert.Equal(t, []int{2}, source.delayNotified)
}

func TestStartStopsOnCancel(t *testing.T) {
	source := &fakeSource{}
	notifier := &fakeNotifier{permission: notify.PermissionDenied}
	s := New(source, notifier, time.UTC, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop on context cancel")
	}
}
