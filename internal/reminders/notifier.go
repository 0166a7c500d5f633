package reminders

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

func ParsePermission(s string) Permission {
	switch Permission(strings.TrimSpace(strings.ToLower(s))) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionDefault
	}
}

// Notifier shows user-facing notifications.
type Notifier interface {
	// RequestPermission asks the user whether notifications may be shown.
	RequestPermission(ctx context.Context) (Permission, error)
	Notify(ctx context.Context, title, body string) error
}

// NotificationTitle is the title of every reminder notification.
const NotificationTitle = "Study reminder - Lumen AI"

// WriterNotifier prints notifications to a terminal.
type WriterNotifier struct {
	Out io.Writer
	// Answer decides the permission prompt; nil grants it.
	Answer func(ctx context.Context) (Permission, error)
	// Format renders a notification; nil uses "title: body".
	Format func(title, body string) string
}

func (w *WriterNotifier) RequestPermission(ctx context.Context) (Permission, error) {
	if w.Answer == nil {
		return PermissionGranted, nil
	}
	return w.Answer(ctx)
}

func (w *WriterNotifier) Notify(ctx context.Context, title, body string) error {
	line := title + ": " + body
	if w.Format != nil {
		line = w.Format(title, body)
	}
	_, err := fmt.Fprintln(w.Out, line)
	return err
}
