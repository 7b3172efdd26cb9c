package ports

import (
	"context"

	"github.com/cognitive-shield/sentinel/internal/core/domain/notification"
)

// Notifier shows a notification if it can; it never reports failure.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
}

// NotificationSink delivers an already-approved notification somewhere.
type NotificationSink interface {
	Name() string
	Deliver(ctx context.Context, n notification.Notification) error
}
