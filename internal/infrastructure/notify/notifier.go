package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/cognitive-shield/sentinel/internal/core/domain/notification"
	"github.com/cognitive-shield/sentinel/internal/core/ports"
)

var notificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sentinel_notifications_total",
		Help: "Notifications by outcome (sent, skipped)",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(notificationsTotal)
}

// Notifier checks the notification icon and, only if it is reachable, hands the
// notification to every sink. Nothing is ever returned to the caller.
type Notifier struct {
	assetsBaseURL string
	iconPath      string
	client        *http.Client
	sinks         []ports.NotificationSink
	logger        *logrus.Logger
	now           func() time.Time
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier creates a notifier resolving icon paths against assetsBaseURL.
func NewNotifier(assetsBaseURL string, logger *logrus.Logger, sinks ...ports.NotificationSink) *Notifier {
	return &Notifier{
		assetsBaseURL: strings.TrimRight(assetsBaseURL, "/"),
		iconPath:      notification.DefaultIconPath,
		client:        &http.Client{Timeout: 5 * time.Second},
		sinks:         sinks,
		logger:        logger,
		now:           time.Now,
	}
}

// WithIconPath sets the icon used when a notification names none.
func (n *Notifier) WithIconPath(path string) *Notifier {
	if path != "" {
		n.iconPath = path
	}
	return n
}

// Notify implements ports.Notifier.
func (n *Notifier) Notify(ctx context.Context, msg notification.Notification) {
	defer func() {
		if r := recover(); r != nil {
			n.warn(logrus.Fields{"panic": r}, nil, "notify failed")
		}
	}()

	iconPath := msg.IconPath
	if iconPath == "" {
		iconPath = n.iconPath
	}
	iconURL := n.assetsBaseURL + "/" + strings.TrimLeft(iconPath, "/")

	if err := n.checkIcon(ctx, iconURL); err != nil {
		notificationsTotal.WithLabelValues("skipped").Inc()
		n.warn(logrus.Fields{"icon_url": iconURL}, err, "notification icon not available, skipping notification")
		return
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Title == "" {
		msg.Title = "Notification"
	}
	msg.IconURL = iconURL
	msg.CreatedAt = n.now().UTC()

	for _, s := range n.sinks {
		if err := s.Deliver(ctx, msg); err != nil {
			n.warn(logrus.Fields{"sink": s.Name(), "notification_id": msg.ID}, err, "notification sink failed")
		}
	}
	notificationsTotal.WithLabelValues("sent").Inc()
}

// checkIcon issues a HEAD for the icon; any failure or non-2xx means skip.
func (n *Notifier) checkIcon(ctx context.Context, iconURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, iconURL, nil)
	if err != nil {
		return fmt.Errorf("invalid icon URL: %w", err)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("icon fetch failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("icon fetch failed: status %d", resp.StatusCode)
	}
	return nil
}

func (n *Notifier) warn(fields logrus.Fields, err error, msg string) {
	if n.logger == nil {
		return
	}
	entry := n.logger.WithFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn(msg)
}
