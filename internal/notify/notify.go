package notify

import "context"

// Permission mirrors the platform notification permission states
type Permission int

const (
	// PermissionDefault means no chat has been bound yet; the owner has not
	// done the equivalent of granting notification access.
	PermissionDefault Permission = iota
	PermissionGranted
	PermissionDenied
)

// Notification is one alert for the owner. Tag identifies the target the
// alert belongs to, so repeated alerts for the same target replace each
// other instead of stacking.
type Notification struct {
	Title string
	Body  string
	Tag   string
}

type Notifier interface {
	Permission(ctx context.Context) Permission
	Send(ctx context.Context, n Notification) error
}
